package workbench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/adapter/profile"
	"packdeck/internal/adapter/tui/components"
	"packdeck/internal/adapter/tui/theme"
	"packdeck/internal/adapter/tui/uxerror"
	"packdeck/internal/domain"
	"packdeck/internal/infra/config"
	control "packdeck/internal/usecase/workbench"
)

// Ensure *Model satisfies tea.Model.
var _ tea.Model = (*Model)(nil)

// DefaultProfilePath is where ctrl+s writes when no profile was loaded.
const DefaultProfilePath = "packdeck-profile.yaml"

const modalQuit = "quit"

type tabID int

const (
	tabGeneral tabID = iota
	tabResources
	tabPlugins
	tabAdvanced
	tabIncludes
	tabFlags
	tabMetadata
	tabDebug
	tabCommand
	tabLog
)

// Deps are the collaborators of the workbench model.
type Deps struct {
	Controller  *control.Controller
	Bridge      *Bridge               // optional; flushed on progress ticks
	Prefs       domain.PreferenceStore // optional; theme persistence
	Bus         domain.EventBus        // optional
	Logger      *slog.Logger
	UI          config.UIConfig
	Theme       domain.Theme
	Options     domain.OptionSet // initial option values, e.g. from a profile
	ProfilePath string
	Clock       func() time.Time
}

// Model is the root Bubble Tea model of the workbench.
type Model struct {
	deps    Deps
	styles  theme.Styles
	symbols theme.SymbolSet

	tabBar    components.TabBarModel
	general   formTab
	resources resourcesTab
	plugins   formTab
	advanced  formTab
	includes  formTab
	flags     flagsTab
	metadata  formTab
	debug     formTab
	command   textarea.Model
	logView   viewport.Model
	logLines  []string
	atBottom  bool

	progress *control.Progress
	bar      progress.Model
	status   components.StatusBarModel
	modal    components.ModalModel

	opts      domain.OptionSet
	running   bool
	runGen    int
	lastRunID string

	width  int
	height int

	programSend func(tea.Msg)
	unsubscribe func()
}

// New creates the workbench model.
func New(deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.UI.MaxLogLines <= 0 {
		deps.UI.MaxLogLines = 5000
	}
	if deps.UI.ProgressInterval <= 0 {
		deps.UI.ProgressInterval = time.Second
	}

	m := &Model{
		deps:     deps,
		styles:   theme.Render(deps.Theme),
		symbols:  theme.Symbols(deps.UI.ASCIISymbols),
		atBottom: true,
		progress: control.NewProgress(deps.UI.ProgressStep, deps.UI.ProgressCap),
		modal:    components.NewModal(),
	}

	m.tabBar = components.NewTabBar([]components.Tab{
		{ID: "general", Label: "General"},
		{ID: "resources", Label: "Resources"},
		{ID: "plugins", Label: "Plugins"},
		{ID: "advanced", Label: "Advanced"},
		{ID: "includes", Label: "Includes"},
		{ID: "flags", Label: "Python Flags"},
		{ID: "metadata", Label: "Metadata"},
		{ID: "debug", Label: "Debug"},
		{ID: "command", Label: "Command"},
		{ID: "log", Label: "Log"},
	})

	m.general = newFormTab("General", []components.FormFieldModel{
		components.NewTextField(keyInterpreter, "Python interpreter", "/path/to/venv/bin/python"),
		components.NewTextField(keyScript, "Main script", "main.py"),
		components.NewTextField(keyIcon, "Icon (.ico, optional)", "app.ico"),
		components.NewTextField(keyOutputDir, "Output directory", "dist"),
	}, toggleItems(domain.SectionGeneral))

	m.resources = newResourcesTab()

	var pluginItems []components.CheckItem
	for _, p := range domain.PluginCatalog {
		pluginItems = append(pluginItems, components.CheckItem{Key: p, Label: p, Detail: "--enable-plugin=" + p})
	}
	m.plugins = newFormTab("Plugins", nil, pluginItems)

	m.advanced = newFormTab("Advanced", []components.FormFieldModel{
		components.NewTextField(keyForceEnv, "Force runtime environment variable", "NAME=value"),
	}, toggleItems(domain.SectionAdvanced))

	m.includes = newFormTab("Includes", []components.FormFieldModel{
		components.NewTextField(keyPackages, "Packages (comma separated)", "requests,yaml"),
		components.NewTextField(keyPackageData, "Package data", "mypkg"),
		components.NewTextField(keyModules, "Modules", "json,csv"),
		components.NewTextField(keyNoIncludeData, "Exclude data files", "*.txt"),
		components.NewTextField(keyOnefileExternalData, "Onefile external data (onefile only)", "*.dll"),
		components.NewTextField(keyRawDirs, "Raw directories", "bin"),
	}, nil)

	m.flags = newFlagsTab()

	m.metadata = newFormTab("Metadata", []components.FormFieldModel{
		components.NewTextField(keyCompany, "Company", ""),
		components.NewTextField(keyProduct, "Product", ""),
		components.NewTextField(keyFileVersion, "File version", "1.0.0.0"),
		components.NewTextField(keyProductVersion, "Product version", "1.0.0.0"),
		components.NewTextField(keyFileDescription, "File description", ""),
		components.NewTextField(keyCopyright, "Copyright", ""),
	}, nil)

	m.debug = newFormTab("Debug", nil, toggleItems(domain.SectionDebug))

	m.command = textarea.New()
	m.command.ShowLineNumbers = false
	m.command.Prompt = ""
	m.command.CharLimit = 0
	m.command.SetHeight(10)

	m.logView = viewport.New(80, 20)
	m.logView.MouseWheelEnabled = true

	m.status = components.NewStatusBar(
		components.KeyHint{Key: "ctrl+r", Desc: "run"},
		components.KeyHint{Key: "ctrl+x", Desc: "stop"},
		components.KeyHint{Key: "f1", Desc: "help"},
		components.KeyHint{Key: "ctrl+c", Desc: "quit"},
	)

	m.applyStyles()
	m.populate(deps.Options)
	m.log("ready: fill in the General tab, then press ctrl+r (f1 for help)")
	return m
}

// SetProgramSender sets the function used to inject messages from the
// EventBus. Must be called before Run().
func (m *Model) SetProgramSender(send func(tea.Msg)) {
	m.programSend = send
}

// Options returns the current option set.
func (m *Model) Options() domain.OptionSet {
	return m.opts.Clone()
}

// CommandText returns the command view text.
func (m *Model) CommandText() string {
	return m.command.Value()
}

// Init subscribes to the EventBus and runs the initial tool check.
func (m *Model) Init() tea.Cmd {
	if m.deps.Bus != nil && m.programSend != nil {
		m.unsubscribe = m.deps.Bus.SubscribeAll(func(_ context.Context, event domain.Event) {
			m.programSend(EventBusMsg{Event: event})
		})
	}
	cmds := []tea.Cmd{m.activateTab()}
	if m.opts.Interpreter != "" {
		cmds = append(cmds, m.checkToolCmd(m.opts.Interpreter))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.modal.Visible {
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case components.ModalResultMsg:
		if msg.ID == modalQuit && msg.Confirmed {
			return m, tea.Sequence(m.stopCmd(), m.quitCmd())
		}
		return m, nil

	case components.FieldSubmitMsg:
		if msg.Key == keyInterpreter && msg.Value != "" {
			return m, m.checkToolCmd(msg.Value)
		}
		return m, nil

	case LogBatchMsg:
		m.appendLog(msg.Lines...)
		return m, nil

	case RunFinishedMsg:
		m.finish(msg.Result)
		return m, nil

	case progressTickMsg:
		if !m.running || msg.gen != m.runGen {
			return m, nil
		}
		m.progress.Tick()
		return m, tea.Batch(m.flushCmd(), m.tickCmd())

	case executeResultMsg:
		return m.handleExecuteResult(msg.Err)

	case stopDoneMsg:
		if msg.Err != nil {
			m.deps.Logger.Warn("stop failed", "error", msg.Err)
			m.log(m.symbols.Warning + " stop failed: " + msg.Err.Error())
		}
		return m, nil

	case toolCheckMsg:
		if errors.Is(msg.Err, domain.ErrToolNotInstalled) {
			m.log(fmt.Sprintf("%s nuitka not detected for %s, install it with: pip install nuitka", m.symbols.Warning, msg.Interpreter))
		}
		return m, nil

	case themeSavedMsg:
		if msg.Err != nil {
			m.deps.Logger.Warn("save theme preference", "error", msg.Err)
			m.log(m.symbols.Warning + " could not save the theme preference")
		}
		return m, nil

	case profileSavedMsg:
		if msg.Err != nil {
			m.showError(msg.Err)
			return m, nil
		}
		m.deps.ProfilePath = msg.Path
		m.log("profile saved to " + msg.Path)
		return m, nil

	case EventBusMsg:
		if msg.Event.Type == domain.EventRunStarted {
			m.lastRunID = msg.Event.RunID
		}
		return m, nil
	}

	return m, m.forward(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "tab":
		m.tabBar.Next()
		return m, m.setTab(tabID(m.tabBar.Active))
	case "shift+tab":
		m.tabBar.Prev()
		return m, m.setTab(tabID(m.tabBar.Active))
	case "ctrl+r":
		return m.run()
	case "ctrl+x":
		return m, m.stopCmd()
	case "ctrl+l":
		m.clearLog()
		return m, nil
	case "ctrl+t":
		return m, m.toggleTheme()
	case "ctrl+s":
		return m, m.saveProfileCmd()
	case "f1":
		m.modal.Open("Help", renderHelp(m.styles, m.modalWidth()-6))
		return m, nil
	}

	var (
		cmd     tea.Cmd
		changed bool
	)
	switch m.activeTab() {
	case tabResources:
		cmd, changed = m.resources.update(msg)
	case tabFlags:
		cmd, changed = m.flags.update(msg)
	case tabCommand:
		m.command, cmd = m.command.Update(msg)
	case tabLog:
		m.logView, cmd = m.logView.Update(msg)
		m.atBottom = m.logView.AtBottom()
	default:
		if t := m.formTab(m.activeTab()); t != nil {
			cmd, changed = t.update(msg)
		}
	}
	if changed {
		m.rebuild()
	}
	return m, cmd
}

// forward routes non-key messages (cursor blinks, mouse) to the focused widget.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab() {
	case tabCommand:
		m.command, cmd = m.command.Update(msg)
	case tabLog:
		m.logView, cmd = m.logView.Update(msg)
		m.atBottom = m.logView.AtBottom()
	case tabResources:
		var c1, c2 tea.Cmd
		m.resources.source, c1 = m.resources.source.Update(msg)
		m.resources.dest, c2 = m.resources.dest.Update(msg)
		cmd = tea.Batch(c1, c2)
	default:
		if t := m.formTab(m.activeTab()); t != nil && t.focus < len(t.fields) {
			t.fields[t.focus], cmd = t.fields[t.focus].Update(msg)
		}
	}
	return cmd
}

func (m *Model) activeTab() tabID {
	return tabID(m.tabBar.Active)
}

func (m *Model) formTab(id tabID) *formTab {
	switch id {
	case tabGeneral:
		return &m.general
	case tabPlugins:
		return &m.plugins
	case tabAdvanced:
		return &m.advanced
	case tabIncludes:
		return &m.includes
	case tabMetadata:
		return &m.metadata
	case tabDebug:
		return &m.debug
	}
	return nil
}

func (m *Model) setTab(id tabID) tea.Cmd {
	m.deactivateTabs()
	m.tabBar.SetActive(int(id))
	if id == tabLog {
		m.tabBar.SetBadge("log", 0)
	}
	return m.activateTab()
}

func (m *Model) activateTab() tea.Cmd {
	switch id := m.activeTab(); id {
	case tabResources:
		return m.resources.activate()
	case tabFlags:
		m.flags.activate()
	case tabCommand:
		return m.command.Focus()
	default:
		if t := m.formTab(id); t != nil {
			return t.activate()
		}
	}
	return nil
}

func (m *Model) deactivateTabs() {
	for _, t := range []*formTab{&m.general, &m.plugins, &m.advanced, &m.includes, &m.metadata, &m.debug} {
		t.deactivate()
	}
	m.resources.deactivate()
	m.flags.deactivate()
	m.command.Blur()
}

// collect reads every tab into an option set.
func (m *Model) collect() domain.OptionSet {
	o := domain.OptionSet{
		Interpreter: m.general.value(keyInterpreter),
		Script:      m.general.value(keyScript),
		Icon:        m.general.value(keyIcon),
		OutputDir:   m.general.value(keyOutputDir),

		Resources: append([]domain.ResourceEntry(nil), m.resources.rows...),

		IncludePackages:     m.includes.value(keyPackages),
		IncludePackageData:  m.includes.value(keyPackageData),
		IncludeModules:      m.includes.value(keyModules),
		NoIncludeData:       m.includes.value(keyNoIncludeData),
		OnefileExternalData: m.includes.value(keyOnefileExternalData),
		IncludeRawDirs:      m.includes.value(keyRawDirs),

		PythonFlags: append([]string(nil), m.flags.selected...),
		Metadata: domain.Metadata{
			Company:         m.metadata.value(keyCompany),
			Product:         m.metadata.value(keyProduct),
			FileVersion:     m.metadata.value(keyFileVersion),
			ProductVersion:  m.metadata.value(keyProductVersion),
			FileDescription: m.metadata.value(keyFileDescription),
			Copyright:       m.metadata.value(keyCopyright),
		},
		ForceEnv: m.advanced.value(keyForceEnv),
	}
	for _, t := range []*formTab{&m.general, &m.advanced, &m.debug} {
		for _, k := range t.checks.Checked() {
			o.SetToggle(domain.Toggle(k), true)
		}
	}
	for _, p := range m.plugins.checks.Checked() {
		o.TogglePlugin(p)
	}
	return o
}

// populate writes o into every tab and rebuilds the command view.
func (m *Model) populate(o domain.OptionSet) {
	m.general.setValue(keyInterpreter, o.Interpreter)
	m.general.setValue(keyScript, o.Script)
	m.general.setValue(keyIcon, o.Icon)
	m.general.setValue(keyOutputDir, o.OutputDir)

	for _, t := range []*formTab{&m.general, &m.advanced, &m.debug} {
		for i := range t.checks.Items {
			t.checks.Items[i].Checked = o.Enabled(domain.Toggle(t.checks.Items[i].Key))
		}
	}
	for i := range m.plugins.checks.Items {
		m.plugins.checks.Items[i].Checked = o.PluginSelected(m.plugins.checks.Items[i].Key)
	}

	m.resources.rows = append([]domain.ResourceEntry(nil), o.Resources...)
	m.flags.selected = append([]string(nil), o.PythonFlags...)

	m.includes.setValue(keyPackages, o.IncludePackages)
	m.includes.setValue(keyPackageData, o.IncludePackageData)
	m.includes.setValue(keyModules, o.IncludeModules)
	m.includes.setValue(keyNoIncludeData, o.NoIncludeData)
	m.includes.setValue(keyOnefileExternalData, o.OnefileExternalData)
	m.includes.setValue(keyRawDirs, o.IncludeRawDirs)

	m.metadata.setValue(keyCompany, o.Metadata.Company)
	m.metadata.setValue(keyProduct, o.Metadata.Product)
	m.metadata.setValue(keyFileVersion, o.Metadata.FileVersion)
	m.metadata.setValue(keyProductVersion, o.Metadata.ProductVersion)
	m.metadata.setValue(keyFileDescription, o.Metadata.FileDescription)
	m.metadata.setValue(keyCopyright, o.Metadata.Copyright)
	m.advanced.setValue(keyForceEnv, o.ForceEnv)

	m.rebuild()
}

// rebuild regenerates the command view from scratch. Manual edits to the
// command text are replaced.
func (m *Model) rebuild() {
	m.opts = m.collect()
	m.command.SetValue(m.deps.Controller.Preview(m.opts))
}

func (m *Model) run() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.executeCmd(m.opts.Clone(), m.command.Value())}
	if !m.running {
		m.running = true
		m.progress.Reset()
		m.runGen++
		cmds = append(cmds, m.tickCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleExecuteResult(err error) (tea.Model, tea.Cmd) {
	if err == nil {
		return m, m.setTab(tabLog)
	}
	if errors.Is(err, domain.ErrRunBusy) {
		return m, nil
	}
	m.running = false
	m.runGen++
	m.progress.Reset()
	m.showError(err)
	return m, nil
}

func (m *Model) finish(result domain.RunResult) {
	m.running = false
	m.runGen++
	m.progress.Finish(result.Success)
	if m.activeTab() != tabLog {
		m.tabBar.SetBadge("log", 1)
	}
}

// showError opens a dialog for errors that block execution and logs the
// rest.
func (m *Model) showError(err error) {
	m.deps.Logger.Warn("workbench error", "error", err, "code", domain.ErrorCodeOf(err))
	fe := uxerror.Humanize(err)
	if uxerror.Modal(err) {
		m.modal.Open(fe.Title, fe.Render(m.symbols.Bullet))
		return
	}
	m.log(m.symbols.Warning + " " + fe.Title + ": " + fe.Message)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.running {
		m.modal.Confirm(modalQuit, "Packaging In Progress", "Packaging is still running. Stop it and quit?")
		return m, nil
	}
	return m, m.quitCmd()
}

func (m *Model) quitCmd() tea.Cmd {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.deps.Bridge != nil {
		m.deps.Bridge.Stop()
	}
	return tea.Quit
}

func (m *Model) toggleTheme() tea.Cmd {
	t := m.styles.Theme.Toggle()
	m.styles = theme.Render(t)
	m.applyStyles()
	m.log(fmt.Sprintf("switched to the %s theme and saved the preference", t))
	m.deps.Logger.Info("theme changed", "theme", t.String())

	prefs, bus := m.deps.Prefs, m.deps.Bus
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if prefs != nil {
			err = prefs.SetBool(ctx, domain.PreferenceDarkTheme, t.Dark())
		}
		if bus != nil {
			payload, _ := json.Marshal(map[string]string{"theme": t.String()})
			bus.Publish(ctx, domain.Event{
				Type:      domain.EventThemeChanged,
				Timestamp: time.Now(),
				Payload:   payload,
			})
		}
		return themeSavedMsg{Theme: t, Err: err}
	}
}

func (m *Model) applyStyles() {
	s := m.styles
	for _, t := range []*formTab{&m.general, &m.plugins, &m.advanced, &m.includes, &m.metadata, &m.debug} {
		t.applyStyles(s)
	}
	m.resources.applyStyles(s)

	m.command.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.command.FocusedStyle.Text = s.InputText
	m.command.FocusedStyle.Placeholder = s.InputPlaceholder
	m.command.BlurredStyle.Text = s.Dim
	m.command.BlurredStyle.Placeholder = s.InputPlaceholder

	width := m.bar.Width
	m.bar = progress.New(progress.WithGradient(s.ProgressFrom, s.ProgressTo))
	if width > 0 {
		m.bar.Width = width
	}
	m.refreshLog()
}

func (m *Model) clearLog() {
	m.logLines = nil
	m.progress.Reset()
	m.log("log cleared")
}

// log appends a locally produced line, stamped like controller lines.
func (m *Model) log(msg string) {
	m.appendLog(control.Stamp(m.deps.Clock(), msg))
}

func (m *Model) appendLog(lines ...string) {
	if len(lines) == 0 {
		return
	}
	m.logLines = append(m.logLines, lines...)
	if over := len(m.logLines) - m.deps.UI.MaxLogLines; over > 0 {
		m.logLines = m.logLines[over:]
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	var sb strings.Builder
	for i, line := range m.logLines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.renderLogLine(line))
	}
	m.logView.SetContent(sb.String())
	if m.atBottom {
		m.logView.GotoBottom()
	}
}

func (m *Model) renderLogLine(line string) string {
	s := m.styles
	stamp, rest := "", line
	if strings.HasPrefix(line, "[") && len(line) > 11 && line[9] == ']' {
		stamp, rest = line[:10], line[10:]
	}
	body := s.LogLine.Render(rest)
	switch {
	case strings.Contains(rest, "✔"), strings.Contains(rest, "[OK]"):
		body = s.TextSuccess.Render(rest)
	case strings.Contains(rest, "✘"), strings.Contains(rest, "[ERR]"):
		body = s.TextError.Render(rest)
	case strings.Contains(rest, "⚠"), strings.Contains(rest, "■"), strings.Contains(rest, "[!]"):
		body = s.TextWarning.Render(rest)
	}
	return s.Timestamp.Render(stamp) + body
}

func (m *Model) executeCmd(opts domain.OptionSet, text string) tea.Cmd {
	ctrl := m.deps.Controller
	return func() tea.Msg {
		return executeResultMsg{Err: ctrl.Execute(context.Background(), opts, text)}
	}
}

func (m *Model) stopCmd() tea.Cmd {
	ctrl := m.deps.Controller
	return func() tea.Msg {
		return stopDoneMsg{Err: ctrl.Stop(context.Background())}
	}
}

func (m *Model) checkToolCmd(interpreter string) tea.Cmd {
	ctrl := m.deps.Controller
	return func() tea.Msg {
		_, err := ctrl.CheckTool(context.Background(), interpreter)
		return toolCheckMsg{Interpreter: interpreter, Err: err}
	}
}

func (m *Model) saveProfileCmd() tea.Cmd {
	path := m.deps.ProfilePath
	if path == "" {
		path = DefaultProfilePath
	}
	opts := m.opts.Clone()
	return func() tea.Msg {
		return profileSavedMsg{Path: path, Err: profile.Save(path, opts)}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.runGen
	return tea.Tick(m.deps.UI.ProgressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{gen: gen}
	})
}

// flushCmd drains the bridge off the update loop; Flush calls Send.
func (m *Model) flushCmd() tea.Cmd {
	b := m.deps.Bridge
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		b.Flush()
		return nil
	}
}

func (m *Model) contentHeight() int {
	// tab bar, progress bar, status bar
	return max(m.height-3, 5)
}

func (m *Model) modalWidth() int {
	if m.width == 0 {
		return 80
	}
	return theme.Clamp(m.width*3/4, 40, m.width)
}

func (m *Model) layout() {
	h := m.contentHeight()

	m.tabBar.SetWidth(m.width)
	m.status.SetWidth(m.width)
	for _, t := range []*formTab{&m.general, &m.plugins, &m.advanced, &m.includes, &m.metadata, &m.debug} {
		t.setWidth(m.width)
	}
	m.resources.setWidth(m.width)
	m.command.SetWidth(max(m.width-2, 10))
	m.command.SetHeight(max(h-4, 3))
	m.logView.Width = m.width
	m.logView.Height = h
	m.bar.Width = max(m.width-2, 10)
	m.modal.SetSize(m.modalWidth(), theme.Clamp(m.height*3/4, 8, max(m.height, 8)))
	m.refreshLog()
}

// View renders the workbench.
func (m *Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}
	s := m.styles

	if m.modal.Visible {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modal.View(s))
	}

	var content string
	switch id := m.activeTab(); id {
	case tabResources:
		content = m.resources.view(s, m.symbols)
	case tabFlags:
		content = m.flags.view(s, m.symbols)
	case tabCommand:
		content = lipgloss.JoinVertical(lipgloss.Left,
			s.SectionTitle.Render("Command"),
			m.command.View(),
			s.Dim.Render("Edited text runs as is. Changing any option regenerates it."),
		)
	case tabLog:
		content = m.logView.View()
	default:
		content = m.formTab(id).view(s, m.symbols)
	}
	h := m.contentHeight()
	content = s.Base.Width(m.width).Height(h).MaxHeight(h).Render(content)

	sb := m.status
	if len(m.logLines) > 0 {
		sb.Message = m.logLines[len(m.logLines)-1]
	}
	sb.State = m.stateLabel()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tabBar.View(s),
		content,
		" "+m.bar.ViewAs(m.progress.Fraction()),
		sb.View(s, m.symbols),
	)
}

func (m *Model) stateLabel() string {
	id := m.lastRunID
	if len(id) > 10 {
		id = id[len(id)-6:]
	}
	switch {
	case m.running && id != "":
		return "running " + id
	case m.running:
		return "running"
	}
	return m.styles.Theme.String()
}
