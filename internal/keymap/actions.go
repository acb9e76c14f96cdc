package keymap

// Action names what a key does. The string form is used in the config file.
type Action string

// Movement, shared by every list panel.
const (
	Up       Action = "up"
	Down     Action = "down"
	Left     Action = "left"
	Right    Action = "right"
	PageUp   Action = "page_up"
	PageDown Action = "page_down"
	Top      Action = "top"
	Bottom   Action = "bottom"
)

// File panel actions.
const (
	Search          Action = "search"
	SearchNext      Action = "search_next"
	SearchPrev      Action = "search_prev"
	Filter          Action = "filter"
	Select          Action = "select"
	InvertSelection Action = "invert_selection"
	ClearSelection  Action = "clear_selection"
	FilterSelection Action = "filter_selection"
	ToggleTag       Action = "toggle_tag"
	ToggleHidden    Action = "toggle_hidden"
	ReverseSort     Action = "reverse_sort"
	CycleSort       Action = "cycle_sort"
	ToNextMtime     Action = "next_mtime"
	ToPrevMtime     Action = "prev_mtime"
	ToggleDirsFirst Action = "toggle_dirs_first"
	YankPath        Action = "yank_path"
)

// Process view actions.
const (
	Close        Action = "close"
	Remove       Action = "remove"
	Kill         Action = "kill"
	FollowOutput Action = "follow"
	ScrollDown   Action = "scroll_down"
	ScrollUp     Action = "scroll_up"
	PageDownOut  Action = "page_down_output"
	PageUpOut    Action = "page_up_output"
	OutputBottom Action = "output_bottom"
	OutputTop    Action = "output_top"
	Reload       Action = "reload"
	CopyOutput   Action = "copy_output"
)

// Global actions handled by the host loop.
const (
	Quit          Action = "quit"
	QuitCd        Action = "quit_cd"
	Help          Action = "help"
	RunCommand    Action = "run_command"
	ShowProcesses Action = "show_processes"
	RefreshDir    Action = "refresh"
	GoHome        Action = "go_home"
	Suspend       Action = "suspend"
)

// Mode selects a binding table.
type Mode string

const (
	ModeMovement Mode = "movement"
	ModeFileList Mode = "filelist"
	ModeProcView Mode = "procview"
	ModeGlobal   Mode = "global"
)

// Modes lists every mode in lookup-priority order for help output.
var Modes = []Mode{ModeFileList, ModeProcView, ModeMovement, ModeGlobal}

var modeActions = map[Mode][]Action{
	ModeMovement: {Up, Down, Left, Right, PageUp, PageDown, Top, Bottom},
	ModeFileList: {
		Search, SearchNext, SearchPrev, Filter, Select, InvertSelection,
		ClearSelection, FilterSelection, ToggleTag, ToggleHidden, ReverseSort,
		CycleSort, ToNextMtime, ToPrevMtime, ToggleDirsFirst, YankPath,
	},
	ModeProcView: {
		Close, Remove, Kill, Up, Down, FollowOutput, ScrollDown, ScrollUp,
		PageDownOut, PageUpOut, OutputBottom, OutputTop, Reload, CopyOutput,
	},
	ModeGlobal: {Quit, QuitCd, Help, RunCommand, ShowProcesses, RefreshDir, GoHome, Suspend},
}

var descriptions = map[Action]string{
	Up:              "Move up",
	Down:            "Move down",
	Left:            "Go to parent directory",
	Right:           "Enter directory",
	PageUp:          "Page up",
	PageDown:        "Page down",
	Top:             "First entry",
	Bottom:          "Last entry",
	Search:          "Incremental search",
	SearchNext:      "Next search match",
	SearchPrev:      "Previous search match",
	Filter:          "Filter entries",
	Select:          "Toggle selection",
	InvertSelection: "Invert selection",
	ClearSelection:  "Clear selection",
	FilterSelection: "Show only selected",
	ToggleTag:       "Toggle tag",
	ToggleHidden:    "Toggle hidden files",
	ReverseSort:     "Reverse sort order",
	CycleSort:       "Cycle sort key",
	ToNextMtime:     "Next by modification time",
	ToPrevMtime:     "Previous by modification time",
	ToggleDirsFirst: "Toggle directories first",
	YankPath:        "Copy path to clipboard",
	Close:           "Close process view",
	Remove:          "Remove process",
	Kill:            "Kill process",
	FollowOutput:    "Follow output",
	ScrollDown:      "Scroll output down",
	ScrollUp:        "Scroll output up",
	PageDownOut:     "Page output down",
	PageUpOut:       "Page output up",
	OutputBottom:    "Output bottom",
	OutputTop:       "Output top",
	Reload:          "Reload output",
	CopyOutput:      "Copy output to clipboard",
	Quit:            "Quit",
	QuitCd:          "Quit and print directory",
	Help:            "Toggle help",
	RunCommand:      "Run shell command",
	ShowProcesses:   "Show processes",
	RefreshDir:      "Re-read directory",
	GoHome:          "Go home",
	Suspend:         "Suspend to shell",
}

// Describe returns a short human description of a.
func Describe(a Action) string {
	if d, ok := descriptions[a]; ok {
		return d
	}
	return string(a)
}

func validAction(mode Mode, a Action) bool {
	for _, candidate := range modeActions[mode] {
		if candidate == a {
			return true
		}
	}
	return false
}
