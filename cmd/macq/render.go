package main

import (
	"fmt"
	"math/cmplx"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sq756/macq"
)

// probBar renders a probability as a fixed-width unicode bar.
func probBar(p float64) string {
	filled := int(p*maxBarWidth + 0.5)
	if filled > maxBarWidth {
		filled = maxBarWidth
	}
	return barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", maxBarWidth-filled))
}

// basisLabel renders a basis index as a ket, qubit 0 rightmost.
func basisLabel(index, numQubits int) string {
	bits := make([]byte, numQubits)
	for q := 0; q < numQubits; q++ {
		bits[numQubits-1-q] = '0' + byte((index>>q)&1)
	}
	return "|" + string(bits) + "⟩"
}

func (m Model) renderStatePanel() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("State"))
	sb.WriteByte('\n')

	if m.result == nil {
		sb.WriteString(dimStyle.Render("no run yet (ctrl+r)"))
		return stateStyle.Render(sb.String())
	}

	qs := m.result.State
	shown := 0
	for i := 0; i < qs.VectorSize() && shown < maxAmpRows; i++ {
		amp := qs.Amplitude(i)
		p := qs.BasisProbability(i)
		if p < 1e-9 {
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s %s\n",
			basisStyle.Render(basisLabel(i, qs.NumQubits())),
			probBar(p),
			ampStyle.Render(fmt.Sprintf("%6.1f%%", p*100)),
			dimStyle.Render(formatAmp(amp)))
		shown++
	}
	if shown == 0 {
		sb.WriteString(dimStyle.Render("all amplitudes below threshold"))
	}

	if len(m.result.MeasuredBits) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(titleStyle.Render("Measurements"))
		sb.WriteByte('\n')
		for _, cbit := range m.result.MeasuredBits {
			fmt.Fprintf(&sb, "%s = %d\n", cbit, m.result.Outcomes[cbit])
		}
	}
	return stateStyle.Render(sb.String())
}

func formatAmp(a complex128) string {
	if cmplx.Abs(a) < 1e-9 {
		return "0"
	}
	return fmt.Sprintf("%.3f%+.3fi", real(a), imag(a))
}

func (m Model) renderHistogramPanel() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Histogram (%d shots)", m.shots)))
	sb.WriteByte('\n')

	if m.frequHist == nil {
		sb.WriteString(dimStyle.Render("no samples yet (ctrl+s)"))
		return histStyle.Render(sb.String())
	}
	if len(m.frequHist) == 0 {
		sb.WriteString(dimStyle.Render("program has no measurements"))
		return histStyle.Render(sb.String())
	}

	keys := make([]string, 0, len(m.frequHist))
	for k := range m.frequHist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m.frequHist[keys[i]] != m.frequHist[keys[j]] {
			return m.frequHist[keys[i]] > m.frequHist[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > histogramRows {
		keys = keys[:histogramRows]
	}
	for _, k := range keys {
		f := m.frequHist[k]
		fmt.Fprintf(&sb, "%s %s %s\n",
			basisStyle.Render(k),
			probBar(f),
			ampStyle.Render(fmt.Sprintf("%6.1f%%", f*100)))
	}
	return histStyle.Render(sb.String())
}

func (m Model) renderEditorPanel() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Program"))
	sb.WriteByte('\n')
	sb.WriteString(m.editor.View())
	if m.parseErr != "" {
		sb.WriteByte('\n')
		sb.WriteString(errStyle.Render(m.parseErr))
	}
	return editorStyle.Render(sb.String())
}

func (m Model) renderStatusLine() string {
	parts := []string{
		fmt.Sprintf("%d qubits", m.numQubits),
		fmt.Sprintf("noise %.2f", m.noiseLevel),
	}
	if memMiB := availableMemMiB(); memMiB >= 0 {
		parts = append(parts, fmt.Sprintf("%d MiB free", memMiB))
	}
	if m.statusMsg != "" {
		parts = append(parts, statusStyle.Render(m.statusMsg))
	}
	keys := dimStyle.Render("ctrl+r run · ctrl+s sample · tab focus · ctrl+c quit")
	return controlsStyle.Render(strings.Join(parts, "  |  ") + "  " + keys)
}

func (m Model) View() string {
	left := m.renderEditorPanel()
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatePanel(),
		m.renderHistogramPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusLine())
}

// quickSummary prints a non-interactive run summary, used by --run mode.
func quickSummary(res *macq.Result, freqs map[string]float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s\n", res.RunID)
	qs := res.State
	for i := 0; i < qs.VectorSize(); i++ {
		p := qs.BasisProbability(i)
		if p < 1e-9 {
			continue
		}
		fmt.Fprintf(&sb, "  %s  %8.4f  %s\n", basisLabel(i, qs.NumQubits()), p, formatAmp(qs.Amplitude(i)))
	}
	for _, cbit := range res.MeasuredBits {
		fmt.Fprintf(&sb, "  %s = %d\n", cbit, res.Outcomes[cbit])
	}
	if len(freqs) > 0 {
		keys := make([]string, 0, len(freqs))
		for k := range freqs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %q: %.3f\n", k, freqs[k])
		}
	}
	return sb.String()
}
