package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const (
	MaxImportBytes = 10 << 20
	exportSheet    = "Iniciativas"
)

type importColumn string

const (
	colName               importColumn = "name"
	colArea               importColumn = "area"
	colChampion           importColumn = "champion"
	colTransformationLead importColumn = "transformation_lead"
	colComplexity         importColumn = "complexity"
	colYear               importColumn = "year"
	colValue              importColumn = "value"
	colStatus             importColumn = "status"
	colMethodology        importColumn = "methodology"
	colStartDate          importColumn = "start_date"
	colEndDate            importColumn = "end_date"
	colProgress           importColumn = "progress"
	colNotes              importColumn = "notes"
	colTechnologies       importColumn = "technologies"
)

// importAliases is checked in order; the first column that claims a field keeps it.
var importAliases = []struct {
	col     importColumn
	aliases []string
}{
	{colName, []string{"nombre", "iniciativa", "name"}},
	{colArea, []string{"area"}},
	{colChampion, []string{"champion"}},
	{colTransformationLead, []string{"lider de transformacion", "transformation lead", "tl"}},
	{colComplexity, []string{"complejidad", "complexity"}},
	{colYear, []string{"año", "ano", "year"}},
	{colValue, []string{"valor", "value"}},
	{colStatus, []string{"estado", "status"}},
	{colMethodology, []string{"metodologia", "methodology"}},
	{colStartDate, []string{"fecha inicio", "start"}},
	{colEndDate, []string{"fecha fin", "end"}},
	{colProgress, []string{"progreso", "progress"}},
	{colNotes, []string{"notas", "notes"}},
	{colTechnologies, []string{"tecnologias", "technologies"}},
}

// exportHeaders re-import cleanly through importAliases.
var exportHeaders = []string{
	"Nombre", "Área", "Champion", "Líder de Transformación", "Complejidad", "Año", "Valor",
	"Estado", "Metodología", "Fecha Inicio", "Fecha Fin", "Progreso", "Notas", "Tecnologías",
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}

type SpreadsheetService interface {
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	Export(ctx context.Context, year *int, w io.Writer) error
}

type spreadsheetService struct {
	log         *logger.Logger
	initiatives InitiativeService
}

func NewSpreadsheetService(log *logger.Logger, initiatives InitiativeService) SpreadsheetService {
	return &spreadsheetService{
		log:         log.With("service", "SpreadsheetService"),
		initiatives: initiatives,
	}
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldHeader lower-cases, strips accents and turns punctuation into single spaces.
func foldHeader(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

func headerMatches(header, alias string) bool {
	if header == alias {
		return true
	}
	return strings.Contains(" "+header+" ", " "+alias+" ")
}

// mapHeaders returns the column index of each recognised field.
func mapHeaders(header []string) map[importColumn]int {
	out := map[importColumn]int{}
	claimed := map[int]bool{}
	// exact matches first so "Fecha Fin" is not taken by a looser alias elsewhere
	for _, exact := range []bool{true, false} {
		for _, entry := range importAliases {
			if _, ok := out[entry.col]; ok {
				continue
			}
		columns:
			for i, raw := range header {
				if claimed[i] {
					continue
				}
				h := foldHeader(raw)
				if h == "" {
					continue
				}
				for _, a := range entry.aliases {
					a = foldHeader(a)
					if (exact && h == a) || (!exact && headerMatches(h, a)) {
						out[entry.col] = i
						claimed[i] = true
						break columns
					}
				}
			}
		}
	}
	return out
}

func (s *spreadsheetService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierr.BadRequest("invalid_file", "cannot read spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierr.BadRequest("invalid_file", "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apierr.BadRequest("invalid_file", "cannot read sheet %q: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, apierr.BadRequest("missing_name_column", "sheet %q is empty", sheets[0])
	}
	cols := mapHeaders(rows[0])
	if _, ok := cols[colName]; !ok {
		return nil, apierr.BadRequest("missing_name_column", "no name column found in the header row")
	}

	res := &ImportResult{Errors: []ImportRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			res.Skipped++
			continue
		}
		in, err := rowInput(cols, row)
		if err == nil {
			_, err = s.initiatives.Create(ctx, in)
		}
		if err != nil {
			res.Errors = append(res.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		res.Created++
	}
	s.log.Info("Spreadsheet imported", "sheet", sheets[0], "created", res.Created, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, cols map[importColumn]int, col importColumn) string {
	i, ok := cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// foldChoice maps v onto one of choices ignoring case and accents, or returns v unchanged.
func foldChoice(v string, choices []string) string {
	fv := foldHeader(v)
	for _, c := range choices {
		if foldHeader(c) == fv {
			return c
		}
	}
	return v
}

func rowInput(cols map[importColumn]int, row []string) (InitiativeInput, error) {
	name := cell(row, cols, colName)
	in := InitiativeInput{
		Name:               &name,
		Area:               optional(cell(row, cols, colArea)),
		Champion:           optional(cell(row, cols, colChampion)),
		TransformationLead: optional(cell(row, cols, colTransformationLead)),
		Complexity:         optional(cell(row, cols, colComplexity)),
		Status:             optional(cell(row, cols, colStatus)),
		Notes:              optional(cell(row, cols, colNotes)),
	}
	if v := cell(row, cols, colValue); v != "" {
		v = foldChoice(v, roadmap.AllowedValues)
		in.Value = &v
	}
	if m := cell(row, cols, colMethodology); m != "" {
		m = foldChoice(m, roadmap.Methodologies)
		in.Methodology = &m
	}
	if y := cell(row, cols, colYear); y != "" {
		year, err := parseWholeNumber(y)
		if err != nil {
			return in, apierr.BadRequest("invalid_year", "year %q is not a number", y)
		}
		in.Year = &year
	}
	if p := cell(row, cols, colProgress); p != "" {
		progress, err := parseProgress(p)
		if err != nil {
			return in, apierr.BadRequest("invalid_progress", "progress %q is not a number", p)
		}
		in.Progress = &progress
	}
	start, err := sheetDate(cell(row, cols, colStartDate))
	if err != nil {
		return in, err
	}
	in.StartDate = optional(start)
	end, err := sheetDate(cell(row, cols, colEndDate))
	if err != nil {
		return in, err
	}
	in.EndDate = optional(end)
	if t := cell(row, cols, colTechnologies); t != "" {
		names := strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
		in.Technologies = &names
	}
	return in, nil
}

func parseWholeNumber(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

// parseProgress accepts "40", "40%" and raw percentage cells such as 0.4.
func parseProgress(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if strings.Contains(s, ".") && f > 0 && f <= 1 {
		f *= 100
	}
	return int(math.Round(f)), nil
}

// sheetDate turns an Excel date serial into YYYY-MM-DD; text dates pass through for parseDate.
func sheetDate(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", apierr.BadRequest("invalid_date", "cannot parse %q as a date", raw)
	}
	return t.Format("2006-01-02"), nil
}

func (s *spreadsheetService) Export(ctx context.Context, year *int, w io.Writer) error {
	list, err := s.initiatives.List(ctx, repos.InitiativeFilter{Year: year})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, in := range list {
		row := exportRow(in)
		cellName, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cellName, &row); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetColWidth(exportSheet, "A", lastCol, 18); err != nil {
		return err
	}

	s.log.Debug("Spreadsheet exported", "rows", len(list))
	return f.Write(w)
}

func exportRow(in *types.Initiative) []any {
	value := ""
	if in.Value != nil {
		value = *in.Value
	}
	return []any{
		in.Name,
		in.Area,
		in.Champion,
		in.TransformationLead,
		in.Complexity,
		in.Year,
		value,
		in.Status,
		in.Methodology,
		formatDate(in.StartDate),
		formatDate(in.EndDate),
		in.Progress,
		in.Notes,
		strings.Join(in.TechnologyNames(), ", "),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
