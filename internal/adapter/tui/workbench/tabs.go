package workbench

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/adapter/tui/components"
	"packdeck/internal/adapter/tui/theme"
	"packdeck/internal/domain"
)

// Form field keys.
const (
	keyInterpreter = "interpreter"
	keyScript      = "script"
	keyIcon        = "icon"
	keyOutputDir   = "output_dir"

	keyPackages            = "packages"
	keyPackageData         = "package_data"
	keyModules             = "modules"
	keyNoIncludeData       = "noinclude_data"
	keyOnefileExternalData = "onefile_external_data"
	keyRawDirs             = "raw_dirs"

	keyCompany         = "company"
	keyProduct         = "product"
	keyFileVersion     = "file_version"
	keyProductVersion  = "product_version"
	keyFileDescription = "file_description"
	keyCopyright       = "copyright"

	keyForceEnv = "force_env"
)

// formTab is a column of text fields optionally followed by a checklist.
// Up/down walk the fields and then the checklist rows.
type formTab struct {
	title      string
	fields     []components.FormFieldModel
	checks     *components.ChecklistModel
	checkboxes bool
	focus      int
}

func newFormTab(title string, fields []components.FormFieldModel, items []components.CheckItem) formTab {
	t := formTab{title: title, fields: fields, checkboxes: true}
	if len(items) > 0 {
		cl := components.NewChecklist(items)
		t.checks = &cl
	}
	return t
}

func toggleItems(section domain.Section) []components.CheckItem {
	var items []components.CheckItem
	for _, spec := range domain.TogglesIn(section) {
		items = append(items, components.CheckItem{Key: string(spec.Toggle), Label: spec.Label, Detail: spec.Flag})
	}
	return items
}

func (t *formTab) slots() int {
	n := len(t.fields)
	if t.checks != nil {
		n++
	}
	return n
}

func (t *formTab) inChecks() bool {
	return t.checks != nil && t.focus == len(t.fields)
}

// activate focuses the current slot; deactivate blurs everything.
func (t *formTab) activate() tea.Cmd {
	t.deactivate()
	if t.inChecks() {
		t.checks.Focus()
		return nil
	}
	if t.focus < len(t.fields) {
		return t.fields[t.focus].Focus()
	}
	return nil
}

func (t *formTab) deactivate() {
	for i := range t.fields {
		t.fields[i].Blur()
	}
	if t.checks != nil {
		t.checks.Blur()
	}
}

func (t *formTab) field(key string) *components.FormFieldModel {
	for i := range t.fields {
		if t.fields[i].Key == key {
			return &t.fields[i]
		}
	}
	return nil
}

func (t *formTab) value(key string) string {
	if f := t.field(key); f != nil {
		return f.Value()
	}
	return ""
}

func (t *formTab) setValue(key, v string) {
	if f := t.field(key); f != nil {
		f.SetValue(v)
	}
}

func (t *formTab) applyStyles(s theme.Styles) {
	for i := range t.fields {
		t.fields[i].ApplyStyles(s)
	}
}

func (t *formTab) setWidth(w int) {
	for i := range t.fields {
		t.fields[i].SetWidth(w - 4)
	}
}

// update handles a key. changed reports whether option values moved.
func (t *formTab) update(msg tea.KeyMsg) (cmd tea.Cmd, changed bool) {
	switch msg.String() {
	case "up":
		if t.inChecks() && t.checks.Up() {
			return nil, false
		}
		if t.focus > 0 {
			t.focus--
			return t.activate(), false
		}
		return nil, false
	case "down":
		if t.inChecks() {
			t.checks.Down()
			return nil, false
		}
		if t.focus < t.slots()-1 {
			t.focus++
			if t.inChecks() {
				t.checks.Cursor = 0
			}
			return t.activate(), false
		}
		return nil, false
	}

	if t.inChecks() {
		switch msg.String() {
		case " ", "enter", "x":
			_, ok := t.checks.Toggle()
			return nil, ok
		}
		return nil, false
	}

	if t.focus >= len(t.fields) {
		return nil, false
	}
	f := &t.fields[t.focus]
	before := f.Input.Value()
	var fcmd tea.Cmd
	*f, fcmd = f.Update(msg)
	if msg.Type == tea.KeyEnter && t.focus < t.slots()-1 {
		t.focus++
		if t.inChecks() {
			t.checks.Cursor = 0
		}
		return tea.Batch(fcmd, t.activate()), false
	}
	return fcmd, f.Input.Value() != before
}

func (t formTab) view(s theme.Styles, sym theme.SymbolSet) string {
	parts := []string{s.SectionTitle.Render(t.title)}
	for _, f := range t.fields {
		parts = append(parts, f.View(s, sym))
	}
	if t.checks != nil {
		if len(t.fields) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, t.checks.View(s, sym, t.checkboxes))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// resourcesTab edits the bundled data rows: a kind switch, source and
// destination inputs, and the list of added rows.
type resourcesTab struct {
	kind   domain.ResourceKind
	source components.FormFieldModel
	dest   components.FormFieldModel
	rows   []domain.ResourceEntry
	cursor int
	focus  int // 0 kind, 1 source, 2 destination, 3 rows
}

func newResourcesTab() resourcesTab {
	t := resourcesTab{
		kind:   domain.ResourceFile,
		source: components.NewTextField("source", "Source path", "assets/logo.png"),
		dest:   components.NewTextField("destination", "Destination in the package", "blank = source base name"),
	}
	return t
}

func (t *resourcesTab) activate() tea.Cmd {
	t.deactivate()
	switch t.focus {
	case 1:
		return t.source.Focus()
	case 2:
		return t.dest.Focus()
	}
	return nil
}

func (t *resourcesTab) deactivate() {
	t.source.Blur()
	t.dest.Blur()
}

func (t *resourcesTab) applyStyles(s theme.Styles) {
	t.source.ApplyStyles(s)
	t.dest.ApplyStyles(s)
}

func (t *resourcesTab) setWidth(w int) {
	t.source.SetWidth(w - 4)
	t.dest.SetWidth(w - 4)
}

// add appends the row typed into the inputs. A blank destination takes
// the base name of the source.
func (t *resourcesTab) add() bool {
	src := t.source.Value()
	if src == "" {
		t.source.SetError("source path is required")
		return false
	}
	t.source.ClearError()
	dst := t.dest.Value()
	if dst == "" {
		dst = filepath.Base(src)
	}
	t.rows = append(t.rows, domain.ResourceEntry{Kind: t.kind, Source: src, Destination: dst})
	t.source.SetValue("")
	t.dest.SetValue("")
	t.cursor = len(t.rows) - 1
	return true
}

func (t *resourcesTab) remove() bool {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return false
	}
	t.rows = append(t.rows[:t.cursor:t.cursor], t.rows[t.cursor+1:]...)
	if t.cursor >= len(t.rows) && t.cursor > 0 {
		t.cursor--
	}
	return true
}

func (t *resourcesTab) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "up":
		if t.focus == 3 && t.cursor > 0 {
			t.cursor--
			return nil, false
		}
		if t.focus > 0 {
			t.focus--
			return t.activate(), false
		}
		return nil, false
	case "down":
		if t.focus == 3 {
			if t.cursor < len(t.rows)-1 {
				t.cursor++
			}
			return nil, false
		}
		if t.focus < 2 || (t.focus == 2 && len(t.rows) > 0) {
			t.focus++
			return t.activate(), false
		}
		return nil, false
	}

	switch t.focus {
	case 0:
		switch msg.String() {
		case " ", "enter", "left", "right":
			if t.kind == domain.ResourceFile {
				t.kind = domain.ResourceDirectory
			} else {
				t.kind = domain.ResourceFile
			}
		}
		return nil, false
	case 1, 2:
		if msg.Type == tea.KeyEnter {
			return nil, t.add()
		}
		f := &t.source
		if t.focus == 2 {
			f = &t.dest
		}
		var cmd tea.Cmd
		*f, cmd = f.Update(msg)
		return cmd, false
	case 3:
		switch msg.String() {
		case "delete", "backspace", "d":
			return nil, t.remove()
		}
	}
	return nil, false
}

func (t resourcesTab) view(s theme.Styles, sym theme.SymbolSet) string {
	kindLine := "  " + s.FieldLabel.Render("Kind")
	if t.focus == 0 {
		kindLine = s.Cursor.Render(sym.Cursor+" ") + s.Bold.Render("Kind")
	}
	file, dir := s.Dim.Render("file"), s.Dim.Render("directory")
	if t.kind == domain.ResourceFile {
		file = s.TextAccent.Render("[file]")
	} else {
		dir = s.TextAccent.Render("[directory]")
	}

	parts := []string{
		s.SectionTitle.Render("Data files and directories"),
		kindLine + "  " + file + " " + dir + s.Dim.Render("   (space switches)"),
		t.source.View(s, sym),
		t.dest.View(s, sym),
		s.Dim.Render("  enter adds the row, d removes the selected row"),
		"",
	}

	if len(t.rows) == 0 {
		parts = append(parts, s.TextMuted.Render("  no resources added"))
	}
	for i, r := range t.rows {
		cursor := "  "
		if t.focus == 3 && i == t.cursor {
			cursor = s.Cursor.Render(sym.Cursor + " ")
		}
		line := padRight(string(r.Kind), 10) + r.Source + " " + sym.ArrowR + " " + r.Destination
		parts = append(parts, cursor+s.LogLine.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// flagsTab picks python runtime flags from the catalog into an ordered
// list without duplicates.
type flagsTab struct {
	catalog  components.ChecklistModel
	selected []string
	cursor   int
	focus    int // 0 catalog, 1 selected
	notice   string
}

func newFlagsTab() flagsTab {
	var items []components.CheckItem
	for _, f := range domain.PythonFlagCatalog {
		items = append(items, components.CheckItem{Key: f, Label: f})
	}
	return flagsTab{catalog: components.NewChecklist(items)}
}

func (t *flagsTab) activate() {
	t.catalog.Blur()
	if t.focus == 0 {
		t.catalog.Focus()
	}
}

func (t *flagsTab) deactivate() {
	t.catalog.Blur()
}

func (t *flagsTab) add(flag string) bool {
	for _, f := range t.selected {
		if f == flag {
			t.notice = flag + " is already in the list"
			return false
		}
	}
	t.notice = ""
	t.selected = append(t.selected, flag)
	return true
}

func (t *flagsTab) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "left":
		t.focus = 0
		t.activate()
		return nil, false
	case "right":
		if len(t.selected) > 0 {
			t.focus = 1
			t.activate()
		}
		return nil, false
	}

	if t.focus == 0 {
		switch msg.String() {
		case "up":
			t.catalog.Up()
		case "down":
			t.catalog.Down()
		case " ", "enter":
			if it, ok := t.catalog.Current(); ok {
				return nil, t.add(it.Key)
			}
		}
		return nil, false
	}

	switch msg.String() {
	case "up":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down":
		if t.cursor < len(t.selected)-1 {
			t.cursor++
		}
	case "delete", "backspace", "d":
		if t.cursor < len(t.selected) {
			t.selected = append(t.selected[:t.cursor:t.cursor], t.selected[t.cursor+1:]...)
			if t.cursor >= len(t.selected) && t.cursor > 0 {
				t.cursor--
			}
			if len(t.selected) == 0 {
				t.focus = 0
				t.activate()
			}
			return nil, true
		}
	}
	return nil, false
}

func (t flagsTab) view(s theme.Styles, sym theme.SymbolSet) string {
	left := []string{s.Bold.Render("Available"), t.catalog.View(s, sym, false)}

	right := []string{s.Bold.Render("Added, in order")}
	if len(t.selected) == 0 {
		right = append(right, s.TextMuted.Render("  none"))
	}
	for i, f := range t.selected {
		cursor := "  "
		if t.focus == 1 && i == t.cursor {
			cursor = s.Cursor.Render(sym.Cursor + " ")
		}
		right = append(right, cursor+s.LogLine.Render(f))
	}

	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		"      ",
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)

	parts := []string{
		s.SectionTitle.Render("Python flags"),
		cols,
		"",
		s.Dim.Render("  enter adds, left/right switch lists, d removes"),
	}
	if t.notice != "" {
		parts = append(parts, "  "+s.TextWarning.Render(sym.Warning+" "+t.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
