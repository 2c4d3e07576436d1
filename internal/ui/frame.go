package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// box draws a single-line frame of a fixed outer width, one row at a time.
type box struct {
	w int
}

func (b box) inner() int { return max(0, b.w-2) }

func (b box) rule(left, right, title string) string {
	if b.w <= 1 {
		return ""
	}
	seg := ""
	if title = strings.TrimSpace(title); title != "" && b.inner() > 2 {
		seg = " " + title + " "
		if lipgloss.Width(seg) > b.inner() {
			seg = " " + truncate(title, b.inner()-2, false) + " "
		}
	}
	return left + seg + strings.Repeat("─", max(0, b.inner()-lipgloss.Width(seg))) + right
}

func (b box) top(title string) string { return b.rule("┌", "┐", title) }
func (b box) sep() string             { return b.rule("├", "┤", "") }
func (b box) bottom() string          { return b.rule("└", "┘", "") }

func (b box) row(s string) string {
	if b.w <= 1 {
		return ""
	}
	if b.inner() == 0 {
		return "││"
	}
	return "│" + padVisible(s, b.inner()) + "│"
}

// padVisible pads or clips s to exactly width terminal cells.
func padVisible(s string, width int) string {
	s = strings.TrimRight(s, "\n")
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) > width {
		s = lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

// joinHeader puts left and right on one line of width cells; right wins
// when space runs out.
func joinHeader(width int, left, right string) string {
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	switch {
	case right == "":
		return left
	case width <= 0 && left == "":
		return right
	case width <= 0:
		return left + " " + right
	}
	rw := lipgloss.Width(right)
	if rw >= width {
		return lipgloss.NewStyle().MaxWidth(width).Render(right)
	}
	room := width - rw - 1
	if left == "" || room <= 0 {
		return strings.Repeat(" ", width-rw) + right
	}
	left = lipgloss.NewStyle().MaxWidth(room).Render(left)
	return left + strings.Repeat(" ", max(1, width-lipgloss.Width(left)-rw)) + right
}

// renderListScreen is the full-screen frame of the group list: crumb row,
// header row with search and status, the list, and a hint footer.
func renderListScreen(width, height int, crumb, headLeft, headRight, body, footer string) string {
	if width <= 0 || height <= 0 {
		return strings.TrimRight(crumb+"\n"+headLeft+"\n"+body, "\n")
	}
	b := box{w: width}
	if height < 3 {
		return b.top("")
	}

	var footLines []string
	if strings.TrimSpace(footer) != "" {
		footLines = strings.Split(strings.TrimRight(footer, "\n"), "\n")
	}
	bodyH := max(0, height-2-4)
	if len(footLines) > 0 {
		bodyH = max(0, bodyH-1-len(footLines))
	}

	var bodyLines []string
	if body = strings.TrimRight(body, "\n"); strings.TrimSpace(body) != "" {
		bodyLines = strings.Split(body, "\n")
	}

	out := make([]string, 0, height)
	out = append(out, b.top(""), b.row(crumb), b.sep(), b.row(joinHeader(b.inner(), headLeft, headRight)), b.sep())
	for i := 0; i < bodyH; i++ {
		ln := ""
		if i < len(bodyLines) {
			ln = bodyLines[i]
		}
		out = append(out, b.row(ln))
	}
	if len(footLines) > 0 {
		out = append(out, b.sep())
		for _, fl := range footLines {
			out = append(out, b.row(fl))
		}
	}
	out = append(out, b.bottom())
	return strings.Join(out, "\n")
}

// formPage is a boxed form: a title in the top border, a scrolled body
// that keeps the focused line visible, an optional status row and a footer.
type formPage struct {
	title  string
	lines  []string
	focus  int
	status string
	footer string
}

func (p formPage) render(width, height int) string {
	b := box{w: width}
	reserved := 2 // sep + footer
	if p.status != "" {
		reserved++
	}
	visibleH := max(1, height-2-reserved)
	start, end := scrollWindow(len(p.lines), visibleH, p.focus)

	out := make([]string, 0, height)
	out = append(out, b.top(p.title))
	for _, ln := range p.lines[start:end] {
		out = append(out, b.row(ln))
	}
	for i := end - start; i < visibleH; i++ {
		out = append(out, b.row(""))
	}
	if p.status != "" {
		out = append(out, b.row(p.status))
	}
	out = append(out, b.sep(), b.row(p.footer), b.bottom())
	return strings.Join(out, "\n")
}

// scrollWindow returns the [start, end) range of total lines to show in
// visible rows, centering focus when the content overflows.
func scrollWindow(total, visible, focus int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := max(0, focus-visible/2)
	end := min(total, start+visible)
	return max(0, end-visible), end
}

// renderPanel frames a modal body with a lipgloss border, an accented
// title row and an optional footer.
func renderPanel(w, h int, title, body, footer string) string {
	if w <= 0 || h <= 0 {
		out := headerStyle.Render(strings.TrimSpace(title)) + "\n" + strings.TrimSpace(body)
		if strings.TrimSpace(footer) != "" {
			out += "\n" + footer
		}
		return strings.TrimSpace(out)
	}
	content := strings.TrimRight(headerStyle.Render(title)+"\n"+body, "\n")
	if strings.TrimSpace(footer) != "" {
		content += "\n" + footer
	}
	return panelStyle.Width(w).Height(h).Render(content)
}

// panelInner is the content area of renderPanel: border plus one cell of
// horizontal padding on each side.
func panelInner(w, h int) (int, int) {
	return max(0, w-4), max(0, h-2)
}

// crumbTitle renders "parent > leaf" with a dim parent.
func crumbTitle(parent, leaf string) string {
	parent, leaf = strings.TrimSpace(parent), strings.TrimSpace(leaf)
	if parent == "" {
		return leaf
	}
	return dim.Render(parent+" >") + " " + headerStyle.Render(leaf)
}

// sectionRule is a dim "── Label ─────" divider across width cells.
func sectionRule(label string, width int) string {
	seg := "── " + strings.TrimSpace(label) + " "
	return dim.Render(seg + strings.Repeat("─", max(0, width-lipgloss.Width(seg))))
}

// footerHints styles "key action" hints separated by two spaces: keys in
// the accent, actions dim. A lone "·" renders as a dim divider.
func footerHints(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		var parts []string
		for _, p := range strings.Split(line, "  ") {
			p = strings.TrimSpace(p)
			switch {
			case p == "":
				continue
			case p == "·":
				parts = append(parts, dim.Render(p))
				continue
			}
			k, action, ok := strings.Cut(p, " ")
			if !ok {
				parts = append(parts, footerKeyStyle.Render(k))
				continue
			}
			parts = append(parts, footerKeyStyle.Render(k)+dim.Render(" "+action))
		}
		lines[i] = strings.Join(parts, "  ")
	}
	return strings.Join(lines, "\n")
}
