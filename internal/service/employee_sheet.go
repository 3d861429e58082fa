package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
)

// ── spreadsheet errors ──

const maxImportRows = 1000

var (
	ErrExportGenerateFail = errors.New("Failed to generate the spreadsheet.")
	ErrImportNoData       = errors.New("The spreadsheet has no data rows (the first row is the header).")
	ErrImportTooManyRows  = fmt.Errorf("The spreadsheet has more than %d data rows.", maxImportRows)
	ErrImportBadHeader    = errors.New("The spreadsheet header is missing a required column (First Name, Last Name, Gender, Position, Division/Section/Unit, Employment Status, Salary).")
	ErrImportUnreadable   = errors.New("The file is not a readable .xlsx workbook.")
)

// ImportEmployeeRow one spreadsheet row, references given by name
type ImportEmployeeRow struct {
	Row              int
	FirstName        string
	MiddleName       string
	LastName         string
	Gender           string
	Birthdate        string
	Phone            string
	Address          string
	Position         string
	DivSecUnit       string
	EmploymentStatus string
	DateHired        string
	Salary           string
}

const employeeSheet = "Employees"

// employeeColumns export header, also accepted by import
var employeeColumns = []string{
	"Last Name", "First Name", "Middle Name", "Gender", "Birthdate", "Phone", "Address",
	"Position", "Division/Section/Unit", "Employment Status", "Date Hired", "Salary",
}

// ═══════════════════════════════════════════════════════════
// Export employee list as .xlsx
// ═══════════════════════════════════════════════════════════
//
// Same filters and ordering as the list page, without paging.
// Header row uses employeeColumns so an export can be re-imported.

func (s *employeeService) Export(ctx context.Context, req *dto.EmployeeListRequest) (*bytes.Buffer, string, error) {
	employees, _, err := s.repo.Employee.List(ctx, listFilters(req), 0, 0)
	if err != nil {
		s.logger.Error("list employees for export failed", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(employeeSheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range employeeColumns {
		f.SetCellValue(employeeSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(employeeSheet, "A1", cell(colName(len(employeeColumns)-1), 1), headerStyle)
	f.SetColWidth(employeeSheet, "A", colName(len(employeeColumns)-1), 18)
	f.SetColWidth(employeeSheet, "G", "G", 32)

	for r, e := range employees {
		row := r + 2
		values := []interface{}{
			e.LastName, e.FirstName, e.MiddleName, e.Gender, formatDate(e.Birthdate), e.Phone, e.Address,
			refName(e.Position != nil, func() string { return e.Position.Name }),
			refName(e.DivSecUnit != nil, func() string { return e.DivSecUnit.Name }),
			refName(e.EmploymentStatus != nil, func() string { return e.EmploymentStatus.Name }),
			formatDate(e.DateHired),
			e.Salary.StringFixed(2),
		}
		for i, v := range values {
			f.SetCellValue(employeeSheet, cell(colName(i), row), v)
		}
	}
	f.SetPanes(employeeSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write employee workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("employees_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── ParseImportFile ──────────────────────

func (s *employeeService) ParseImportFile(reader io.Reader) ([]ImportEmployeeRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, ErrImportUnreadable
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, ErrImportUnreadable
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseEmployeeHeader(excelRows[0])
	for _, k := range []string{"first_name", "last_name", "gender", "position", "div_sec_unit", "employment_status", "salary"} {
		if col[k] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	var rows []ImportEmployeeRow
	for i := 1; i < len(excelRows); i++ {
		raw := excelRows[i]
		get := func(key string) string {
			if idx := col[key]; idx >= 0 && idx < len(raw) {
				return strings.TrimSpace(raw[idx])
			}
			return ""
		}
		item := ImportEmployeeRow{
			Row:              i + 1,
			FirstName:        get("first_name"),
			MiddleName:       get("middle_name"),
			LastName:         get("last_name"),
			Gender:           get("gender"),
			Birthdate:        get("birthdate"),
			Phone:            get("phone"),
			Address:          get("address"),
			Position:         get("position"),
			DivSecUnit:       get("div_sec_unit"),
			EmploymentStatus: get("employment_status"),
			DateHired:        get("date_hired"),
			Salary:           get("salary"),
		}
		if strings.Join(raw, "") == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseEmployeeHeader column key → index, -1 when absent
func parseEmployeeHeader(header []string) map[string]int {
	idx := map[string]int{
		"first_name": -1, "middle_name": -1, "last_name": -1, "gender": -1,
		"birthdate": -1, "phone": -1, "address": -1, "position": -1,
		"div_sec_unit": -1, "employment_status": -1, "date_hired": -1, "salary": -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.NewReplacer(" ", "_", "/", "_").Replace(key)
		switch key {
		case "division_section_unit", "div_sec_unit", "unit":
			key = "div_sec_unit"
		case "status":
			key = "employment_status"
		}
		if _, ok := idx[key]; ok && idx[key] < 0 {
			idx[key] = i
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

func (s *employeeService) Import(ctx context.Context, rows []ImportEmployeeRow) (*dto.ImportEmployeeResponse, error) {
	resp := &dto.ImportEmployeeResponse{Total: len(rows)}

	refs, err := s.importRefs(ctx)
	if err != nil {
		s.logger.Error("load import reference data failed", zap.Error(err))
		return nil, err
	}

	// phase 1: validate every row without writing
	type validatedRow struct {
		row      int
		employee *model.Employee
	}
	var valid []validatedRow
	seen := make(map[string]int)

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportEmployeeError{Row: row, Reason: reason})
	}

	for _, row := range rows {
		in := &dto.EmployeeInput{
			FirstName:          row.FirstName,
			MiddleName:         row.MiddleName,
			LastName:           row.LastName,
			Phone:              row.Phone,
			Address:            row.Address,
			Birthdate:          normalizeSheetDate(row.Birthdate),
			Gender:             normalizeGender(row.Gender),
			DateHired:          normalizeSheetDate(row.DateHired),
			Salary:             strings.ReplaceAll(row.Salary, ",", ""),
		}
		trimEmployeeInput(in)

		var unknown []string
		resolve := func(idx *nameIndex, name, label string) string {
			if strings.TrimSpace(name) == "" {
				return ""
			}
			id, ambiguous := idx.lookup(name)
			switch {
			case ambiguous:
				unknown = append(unknown, "ambiguous "+label+": "+name)
			case id == "":
				unknown = append(unknown, "unknown "+label+": "+name)
			}
			return id
		}
		in.PositionID = resolve(refs.positions, row.Position, "position")
		in.DivSecUnitID = resolve(refs.units, row.DivSecUnit, "division/section/unit")
		in.EmploymentStatusID = resolve(refs.statuses, row.EmploymentStatus, "employment status")
		if len(unknown) > 0 {
			fail(row.Row, strings.Join(unknown, "; "))
			continue
		}

		if err := validateStruct(in); err != nil {
			fail(row.Row, failureReason(err))
			continue
		}

		key := in.FirstName + "\x00" + in.LastName
		if first, dup := seen[key]; dup {
			fail(row.Row, fmt.Sprintf("duplicate of row %d", first))
			continue
		}

		employee := &model.Employee{}
		if err := applyEmployeeInput(ctx, s.repo, in, employee); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				s.logger.Error("validate import row failed", zap.Int("row", row.Row), zap.Error(err))
				return nil, err
			}
			fail(row.Row, failureReason(err))
			continue
		}
		seen[key] = row.Row
		valid = append(valid, validatedRow{row: row.Row, employee: employee})
	}

	// phase 2: create every valid row in one transaction
	if len(valid) == 0 {
		return resp, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)
	for _, vr := range valid {
		if err := txRepo.Employee.Create(ctx, vr.employee); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("import employee failed, rolled back",
				zap.Int("row", vr.row), zap.Error(err))
			return nil, fmt.Errorf("row %d could not be saved, nothing was imported: %w", vr.row, err)
		}
		resp.Success++
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit import failed", zap.Error(err))
			return nil, err
		}
	}
	s.logger.Info("employees imported", zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

type importRefs struct {
	positions *nameIndex
	units     *nameIndex
	statuses  *nameIndex
}

// importRefs name → id for every referenced catalog
func (s *employeeService) importRefs(ctx context.Context) (*importRefs, error) {
	refs := &importRefs{positions: newNameIndex(), units: newNameIndex(), statuses: newNameIndex()}
	positions, err := s.repo.Position.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range positions {
		refs.positions.add(p.Name, p.ID)
	}
	units, err := s.repo.DivSecUnit.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		refs.units.add(u.Name, u.ID)
	}
	statuses, err := s.repo.EmploymentStatus.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range statuses {
		refs.statuses.add(st.Name, st.ID)
	}
	return refs, nil
}

// nameIndex catalog names are unique only as typed, so "Finance" and
// "finance" may both exist. An exact match wins; otherwise a
// case-insensitive match is taken only when it names a single entry.
type nameIndex struct {
	exact  map[string]string
	folded map[string][]string
}

func newNameIndex() *nameIndex {
	return &nameIndex{exact: make(map[string]string), folded: make(map[string][]string)}
}

func (n *nameIndex) add(name, id string) {
	n.exact[name] = id
	key := strings.ToLower(name)
	n.folded[key] = append(n.folded[key], id)
}

// lookup returns the id for name, or ambiguous when only differently-cased
// names match and there is more than one of them
func (n *nameIndex) lookup(name string) (id string, ambiguous bool) {
	name = strings.TrimSpace(name)
	if id, ok := n.exact[name]; ok {
		return id, false
	}
	switch ids := n.folded[strings.ToLower(name)]; len(ids) {
	case 0:
		return "", false
	case 1:
		return ids[0], false
	default:
		return "", true
	}
}

// ── helpers ──

var sheetDateLayouts = []string{"2006-01-02", "01-02-06", "1/2/2006", "1/2/06", "2006/01/02"}

// normalizeSheetDate rewrites the date formats spreadsheets commonly produce as YYYY-MM-DD.
// Unparseable values pass through so validation reports them.
func normalizeSheetDate(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(dateLayout)
		}
	}
	return v
}

func normalizeGender(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "male", "m":
		return model.GenderMale
	case "female", "f":
		return model.GenderFemale
	case "other":
		return model.GenderOther
	}
	return v
}

// failureReason flattens a ValidationError into one line
func failureReason(err error) string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, verr.Fields[k])
	}
	return strings.Join(msgs, " ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func refName(ok bool, name func() string) string {
	if !ok {
		return ""
	}
	return name()
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
