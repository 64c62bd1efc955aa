package sambamba

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `# chrom chromStart chromEnd GeneSymbol;Accession FullPosition NotWholeGenePosition readCount meanCoverage percentage30 sampleName
chr17	41196311	41197819	BRCA1;NM_007294.4	chr17:41196312-41197819	chr17:41196312-41197819	1500	180.2	95	sample1
chr13	32889616	32889804	BRCA2;NM_000059.3	chr13:32889617-32889804	chr13:32889617-32889804	1600	210.0	100	sample1
chr7	117119915	117120201	CFTR;NM_000492.3	chr7:117119916-117120201	chr7:117119916-117120201	900	95.5	99.97	sample1
`

func writeReport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParser_ParseRecords(t *testing.T) {
	path := writeReport(t, "sample1.sambamba_output.txt", sampleReport)

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	cols := parser.Columns()
	assert.Equal(t, 3, cols.GeneAccession)
	assert.Equal(t, 4, cols.FullPosition)
	assert.Equal(t, 8, cols.Percentage30)

	rec, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "BRCA1", rec.GeneSymbol)
	assert.Equal(t, "NM_007294.4", rec.Accession)
	assert.Equal(t, "chr17:41196312-41197819", rec.FullPosition)
	assert.Equal(t, 95.0, rec.Percent30)

	rec, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "BRCA2", rec.GeneSymbol)
	assert.Equal(t, 100.0, rec.Percent30)

	rec, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "CFTR", rec.GeneSymbol)
	assert.Equal(t, 99.97, rec.Percent30)

	rec, err = parser.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParseFile(t *testing.T) {
	path := writeReport(t, "sample1.sambamba_output.txt", sampleReport)

	report, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "sample1"), report.Prefix)
	require.Len(t, report.Records, 3)
	assert.Equal(t, "BRCA1", report.Records[0].GeneSymbol)
	assert.Equal(t, "CFTR", report.Records[2].GeneSymbol)
}

func TestParseFile_NoTrailingNewline(t *testing.T) {
	content := "# chrom GeneSymbol;Accession FullPosition percentage30\n" +
		"chr17\tBRCA1;NM_007294.4\tchr17:41196312-41197819\t95\n" +
		"chr2\tABC2;NM_000111.2\tchr2:1000-2000\t80"
	path := writeReport(t, "sample1.sambamba_output.txt", content)

	report, err := ParseFile(path)
	require.NoError(t, err)

	require.Len(t, report.Records, 2, "final record without trailing newline must be kept")
	assert.Equal(t, "ABC2", report.Records[1].GeneSymbol)
	assert.Equal(t, 80.0, report.Records[1].Percent30)
}

func TestParser_HeaderOnlyNoTrailingNewline(t *testing.T) {
	content := "# chrom GeneSymbol;Accession FullPosition percentage30"
	path := writeReport(t, "sample1.sambamba_output.txt", content)

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	assert.Equal(t, 1, parser.Columns().GeneAccession)

	rec, err := parser.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParser_EmptyFile(t *testing.T) {
	path := writeReport(t, "sample1.sambamba_output.txt", "")

	_, err := NewParser(path)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "no header line found")
}

func TestParser_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample1.sambamba_output.txt.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleReport))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	report, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "sample1"), report.Prefix)
	assert.Len(t, report.Records, 3)
}

func TestOutputPrefix(t *testing.T) {
	prefix, err := OutputPrefix("runs/sample1.sambamba_output.txt")
	require.NoError(t, err)
	assert.Equal(t, "runs/sample1", prefix)

	prefix, err = OutputPrefix("sample1.sambamba_output.txt.gz")
	require.NoError(t, err)
	assert.Equal(t, "sample1", prefix)

	_, err = OutputPrefix("sample1.txt")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParser_MissingSuffix(t *testing.T) {
	path := writeReport(t, "sample1.txt", sampleReport)

	_, err := NewParser(path)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParser_MissingColumns(t *testing.T) {
	content := "# chrom chromStart chromEnd FullPosition percentage30\nchr1 1 2 chr1:1-2 95\n"
	path := writeReport(t, "sample1.sambamba_output.txt", content)

	_, err := NewParser(path)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, ColGeneAccession)
}

func TestParser_MalformedCombinedColumn(t *testing.T) {
	content := `# chrom GeneSymbol;Accession FullPosition percentage30
chr17	BRCA1_NM_007294.4	chr17:41196312-41197819	95
`
	path := writeReport(t, "sample1.sambamba_output.txt", content)

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	_, err = parser.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "cannot split")
}

func TestParser_InvalidPercentage(t *testing.T) {
	content := `# chrom GeneSymbol;Accession FullPosition percentage30
chr17	BRCA1;NM_007294.4	chr17:41196312-41197819	n/a
`
	path := writeReport(t, "sample1.sambamba_output.txt", content)

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	_, err = parser.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "invalid coverage percentage")
}
