package filelist

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/ui/render"
)

// Render returns the rows on screen.
func (f *FileList) Render() []render.Line {
	if f.prerendered != nil {
		lines := f.prerendered
		f.prerendered = nil
		return lines
	}
	return f.view.Render()
}

func (f *FileList) nameStyle(e fs.Entry) render.Line {
	th := f.theme
	style := th.Fg(th.FileFg)
	switch {
	case e.Placeholder:
		style = th.Fg(th.HiddenFg).Italic(true)
	case e.Selected:
		style = th.Fg(th.MarkFg)
	case e.IsSymlink:
		style = th.Fg(th.SymlinkFg)
	case e.IsDir:
		style = th.Fg(th.DirectoryFg).Bold(true)
	case e.IsHidden():
		style = th.Fg(th.HiddenFg)
	}

	var line render.Line
	if e.Tagged {
		line = line.Append("*", th.Fg(th.TagFg))
	}
	if e.Selected {
		line = line.Append(" ", style)
	}
	return line.Append(e.Name, style)
}

func sizeText(e fs.Entry) string {
	switch {
	case e.Placeholder || !e.HasMeta:
		return ""
	case e.IsDir && e.DirSizeKnown:
		return fs.HumanSize(e.DirSize)
	case e.IsDir:
		return ""
	default:
		return fs.HumanSize(e.Size)
	}
}

// renderRow lays out one entry: tag marker, selection gap, name on the
// left; link indicator and size on the right.
func (f *FileList) renderRow(e fs.Entry, width int) render.Line {
	th := f.theme
	var right render.Line
	if e.IsSymlink && e.Target != "" {
		right = right.Append("--> ", th.Fg(th.MarkFg))
	}
	right = right.Append(sizeText(e), th.Fg(th.SizeFg))
	return render.Row(width, f.nameStyle(e), right, th.Base())
}

// RenderHeader summarizes the listing state.
func (f *FileList) RenderHeader() render.Line {
	th := f.theme
	parts := []string{"sort: " + f.files.SortKey().String()}
	if f.files.Reversed() {
		parts[0] += " (rev)"
	}
	if f.files.ShowHidden() {
		parts = append(parts, "hidden")
	}
	if filter := f.files.Filter(); filter != "" {
		parts = append(parts, fmt.Sprintf("filter: %q", filter))
	}
	if f.files.FilterSelected() {
		parts = append(parts, "selected only")
	}
	if n := f.countSelected(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	return render.Text(strings.Join(parts, "  "), th.Fg(th.SizeFg))
}

func (f *FileList) countSelected() int {
	n := 0
	for _, e := range f.files.Entries() {
		if e.Selected {
			n++
		}
	}
	return n
}

// RenderFooter describes the selected entry and the cursor position.
func (f *FileList) RenderFooter() render.Line {
	th := f.theme
	pos := fmt.Sprintf("%d/%d", f.view.Selection()+1, f.view.Len())
	if f.view.Len() == 0 {
		pos = "0/0"
	}

	cur, ok := f.view.Current()
	if !ok || cur.Placeholder {
		return render.Text(pos, th.Base())
	}

	var info []string
	if cur.HasMeta {
		info = append(info, cur.Mode.String())
		if size := sizeText(cur); size != "" {
			info = append(info, size)
		}
		info = append(info, cur.Modified.Format("2006-01-02 15:04"))
	}
	if cur.IsSymlink && cur.Target != "" {
		info = append(info, "-> "+cur.Target)
	}
	left := render.Text(strings.Join(info, "  "), th.Base())
	return render.Row(f.view.Width(), left, render.Text(pos, th.Base()), th.Base())
}
