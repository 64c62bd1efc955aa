package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covqc/covqc/internal/sambamba"
)

func TestFilter(t *testing.T) {
	report := &sambamba.Report{
		Prefix: "sample1",
		Records: []sambamba.Record{
			{GeneSymbol: "BRCA1", Accession: "NM_007294.4", FullPosition: "chr17:41196312-41197819", Percent30: 95},
			{GeneSymbol: "BRCA2", Accession: "NM_000059.3", FullPosition: "chr13:32889617-32889804", Percent30: 100},
			{GeneSymbol: "CFTR", Accession: "NM_000492.3", FullPosition: "chr7:117119916-117120201", Percent30: 99.97},
			{GeneSymbol: "TP53", Accession: "NM_000546.6", FullPosition: "chr17:7572927-7573008", Percent30: 0},
		},
	}

	issues := Filter(report)

	// Count-conserving: exactly the non-100 rows, in input order
	assert.Len(t, issues, 3)
	assert.Equal(t, "BRCA1", issues[0].Gene)
	assert.Equal(t, "CFTR", issues[1].Gene)
	assert.Equal(t, "TP53", issues[2].Gene)

	for _, issue := range issues {
		assert.NotEqual(t, 100.0, issue.Percent30)
	}

	assert.Equal(t, "NM_007294.4", issues[0].Accession)
	assert.Equal(t, "chr17:41196312-41197819", issues[0].ExonPosition)
	assert.Equal(t, 95.0, issues[0].Percent30)
	assert.Empty(t, issues[0].HGNC, "identifier is assigned by the resolver")
}

func TestFilter_NoIssues(t *testing.T) {
	report := &sambamba.Report{
		Records: []sambamba.Record{
			{GeneSymbol: "BRCA1", Accession: "NM_007294.4", Percent30: 100},
		},
	}

	assert.Empty(t, Filter(report))
}

func TestUniqueGenes(t *testing.T) {
	issues := []Issue{
		{Gene: "BRCA1", Accession: "NM_007294.4", HGNC: "HGNC:1100"},
		{Gene: "BRCA1", Accession: "NM_007294.4", HGNC: "HGNC:1100"},
		{Gene: "ABC2", Accession: "NM_000111.2", HGNC: NoIdentifier},
		{Gene: "BRCA1", Accession: "NM_007294.4", HGNC: "HGNC:1100"},
	}

	genes := UniqueGenes(issues)

	assert.Equal(t, []string{
		"BRCA1\tNM_007294.4\tHGNC:1100",
		"ABC2\tNM_000111.2\t-",
	}, genes)
}

func TestUniqueGenes_DistinctAccessions(t *testing.T) {
	// Same gene via two transcripts stays two entries
	issues := []Issue{
		{Gene: "BRCA1", Accession: "NM_007294.4", HGNC: "HGNC:1100"},
		{Gene: "BRCA1", Accession: "NM_007294.3", HGNC: "HGNC:1100"},
	}

	assert.Len(t, UniqueGenes(issues), 2)
}

func TestIssueDisplay(t *testing.T) {
	issue := Issue{Gene: "BRCA1", Accession: "NM_007294.4", HGNC: "HGNC:1100"}
	assert.Equal(t, "BRCA1\tNM_007294.4\tHGNC:1100", issue.Display())
}
