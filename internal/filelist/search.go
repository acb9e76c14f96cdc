package filelist

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rnav/internal/ui/input"
)

// SearchFile starts incremental search. Every edit jumps to the first entry
// containing the input; Esc or empty input returns to where the search
// started, Enter keeps the pattern for SearchNext/SearchPrev.
func (f *FileList) SearchFile() {
	start := f.current()
	restore := func() { f.view.Select(start) }

	f.prompt = &input.Prompt{
		Label: "search",
		OnChange: func(text string) {
			if text == "" {
				restore()
				return
			}
			if found, ok := f.files.FindFileWithName(text); ok {
				f.view.Select(found)
			}
		},
		OnConfirm: func(text string) {
			f.searching = strings.ToLower(text)
		},
		OnCancel: restore,
	}
}

// SearchNext selects the next entry after the cursor matching the search
// pattern. It does not wrap.
func (f *FileList) SearchNext() error {
	if f.searching == "" {
		return ErrNoSearchPattern
	}
	idx := f.files.FindFrom(f.searching, f.view.Selection()+1)
	if idx < 0 {
		f.status("Reached last search result!")
		return nil
	}
	f.view.SetSelection(idx)
	return nil
}

// SearchPrev selects the closest matching entry before the cursor.
func (f *FileList) SearchPrev() error {
	if f.searching == "" {
		return ErrNoSearchPattern
	}
	idx := f.files.FindBefore(f.searching, f.view.Selection())
	if idx < 0 {
		f.status("Reached last search result!")
		return nil
	}
	f.view.SetSelection(idx)
	return nil
}

// Filter starts the live filter prompt. The visible entries narrow with
// every edit; Esc or empty input removes the filter.
func (f *FileList) Filter() {
	start := f.current()
	apply := func(pattern string) {
		f.files.SetFilter(pattern)
		f.view.Select(start)
	}

	f.prompt = &input.Prompt{
		Label:    "filter",
		OnChange: apply,
		OnConfirm: func(text string) {
			f.status(fmt.Sprintf("Filtering with: %q", text))
		},
		OnCancel: func() {
			apply("")
			f.status(`Filtering with: ""`)
		},
	}
}

// SetFilter applies a filter directly, keeping the current entry selected
// when it stays visible.
func (f *FileList) SetFilter(pattern string) {
	start := f.current()
	f.files.SetFilter(pattern)
	f.view.Select(start)
}
