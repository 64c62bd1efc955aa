// Package sambamba provides parsing for sambamba depth-region coverage reports.
package sambamba

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Report file name suffix and the columns the pipeline depends on.
const (
	ReportSuffix = ".sambamba_output.txt"

	ColGeneAccession = "GeneSymbol;Accession"
	ColFullPosition  = "FullPosition"
	ColPercentage30  = "percentage30"
)

// ColumnIndices holds the indices of the required report columns.
type ColumnIndices struct {
	GeneAccession int
	FullPosition  int
	Percentage30  int
}

// Record is one exon row of a coverage report. The combined
// GeneSymbol;Accession column is split during parsing; Fields keeps the
// full raw row for passthrough columns.
type Record struct {
	GeneSymbol   string
	Accession    string
	FullPosition string
	Percent30    float64
	Fields       []string
}

// Report is a fully parsed coverage report. Prefix is the input path with
// the report suffix removed and names the output files for this sample.
type Report struct {
	Prefix  string
	Records []Record
}

// Parser reads records from a sambamba output file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	prefix     string
}

// OutputPrefix derives the output file prefix from a report path: everything
// before the report suffix. Gzip-compressed reports keep their prefix too.
func OutputPrefix(path string) (string, error) {
	trimmed := strings.TrimSuffix(path, ".gz")
	prefix, ok := strings.CutSuffix(trimmed, ReportSuffix)
	if !ok {
		return "", &ParseError{
			Message: fmt.Sprintf("report file name must end in %q, got %q", ReportSuffix, path),
		}
	}
	return prefix, nil
}

// NewParser creates a parser for the given report file.
// Supports both plain and gzip-compressed reports.
func NewParser(path string) (*Parser, error) {
	prefix, err := OutputPrefix(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coverage report: %w", err)
	}

	p := &Parser{file: file, prefix: prefix}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read coverage report: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek coverage report: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// parseHeader reads the header line and resolves column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read header: %w", err)
		}
		// A final line without a trailing newline arrives together with EOF
		atEOF := err == io.EOF
		if line == "" && atEOF {
			return &ParseError{
				Line:    p.lineNumber,
				Message: "no header line found",
			}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		// sambamba writes the header with a leading "# " marker
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimSpace(line)

		if line == "" {
			if atEOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			continue
		}

		return p.parseColumnIndices(line)
	}
}

// parseColumnIndices resolves the required column positions from the header.
func (p *Parser) parseColumnIndices(headerLine string) error {
	columns := strings.Fields(headerLine)

	p.columns = ColumnIndices{
		GeneAccession: -1,
		FullPosition:  -1,
		Percentage30:  -1,
	}

	for i, col := range columns {
		switch col {
		case ColGeneAccession:
			p.columns.GeneAccession = i
		case ColFullPosition:
			p.columns.FullPosition = i
		case ColPercentage30:
			p.columns.Percentage30 = i
		}
	}

	if p.columns.GeneAccession == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required column %q not found in header", ColGeneAccession),
		}
	}
	if p.columns.FullPosition == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required column %q not found in header", ColFullPosition),
		}
	}
	if p.columns.Percentage30 == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required column %q not found in header", ColPercentage30),
		}
	}

	return nil
}

// Next reads the next record from the report.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read record line: %w", err)
	}
	// A final line without a trailing newline arrives together with EOF
	atEOF := err == io.EOF
	if line == "" && atEOF {
		return nil, nil
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if atEOF {
			return nil, nil
		}
		return p.Next() // Skip empty lines
	}

	return p.parseLine(line)
}

// parseLine parses a single data line into a Record.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Fields(line)

	minCols := maxIndex(p.columns.GeneAccession, p.columns.FullPosition, p.columns.Percentage30)
	if len(fields) <= minCols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	combined := fields[p.columns.GeneAccession]
	gene, accession, ok := strings.Cut(combined, ";")
	if !ok || gene == "" || accession == "" {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("cannot split %q into gene symbol and accession", combined),
		}
	}

	pct, err := strconv.ParseFloat(fields[p.columns.Percentage30], 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid coverage percentage: %s", fields[p.columns.Percentage30]),
		}
	}

	return &Record{
		GeneSymbol:   gene,
		Accession:    accession,
		FullPosition: fields[p.columns.FullPosition],
		Percent30:    pct,
		Fields:       fields,
	}, nil
}

// Columns returns the resolved column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// Prefix returns the output file prefix derived from the report path.
func (p *Parser) Prefix() string {
	return p.prefix
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseFile reads a whole coverage report into memory.
func ParseFile(path string) (*Report, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	report := &Report{Prefix: p.Prefix()}
	for {
		rec, err := p.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		report.Records = append(report.Records, *rec)
	}

	return report, nil
}

// ParseError represents an error during report parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("coverage report parse error: %s", e.Message)
	}
	return fmt.Sprintf("coverage report parse error at line %d: %s", e.Line, e.Message)
}

// maxIndex returns the maximum of the provided integers.
func maxIndex(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
