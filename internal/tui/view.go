package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/qi-duel/internal/models"
)

func (m model) View() string {
	var s string

	switch m.state {
	case stateChooseVariant:
		s = fmt.Sprintf(
			"Qi Duel\n\n%s\n\n%s\n\n%s",
			"Choose your opponent (leave empty for the configured one):",
			m.textInput.View(),
			helpStyle.Render("default: charges and guards on a steady rhythm\naggressive: doubles its next blow after charging\ndefensive: turtles up whenever you land an odd hit"),
		)

	case statePlaying, stateEnded:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		var footer string
		if m.state == statePlaying {
			footer = lipgloss.JoinVertical(lipgloss.Left,
				"\n"+m.textInput.View(),
				previewStyle.Render(m.preview),
				helpStyle.Render("Commands: yang yin, /hint, /restart, /quit."),
			)
		} else {
			footer = "\n" + m.renderEnding() + "\n" + m.textInput.View()
		}

		s = lipgloss.JoinVertical(lipgloss.Left, mainView, footer)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderEnding() string {
	var b strings.Builder
	if m.engine.Winner() == models.Player {
		b.WriteString(titleStyle.Render("VICTORY"))
		b.WriteString("\n/next for the next level, /restart or /quit.")
	} else {
		b.WriteString(titleStyle.Render("DEFEAT"))
		b.WriteString("\n/restart or /quit.")
	}
	if m.saved != "" {
		b.WriteString(helpStyle.Render("\nSaved as " + m.saved))
	}
	return b.String()
}

func (m model) renderPreview(input string) string {
	if strings.TrimSpace(input) == "" || strings.HasPrefix(input, "/") {
		return ""
	}
	yang, yin, err := parseAllocation(input)
	if err != nil {
		return ""
	}
	p, err := m.engine.Preview(yang, yin)
	if err != nil {
		return lockedStyle.Render(err.Error())
	}
	switch {
	case p.Locked:
		return lockedStyle.Render(fmt.Sprintf("%s locked (%d/%d): attack %d, defense %d",
			p.State, p.Progress, p.Threshold, p.Attack, p.Defense))
	case p.UltimateSpent:
		return fmt.Sprintf("%s already spent: attack %d, defense %d", p.State, p.Attack, p.Defense)
	default:
		return fmt.Sprintf("%s: attack %d, defense %d", p.State, p.Attack, p.Defense)
	}
}

func (m model) renderState() string {
	if m.engine == nil {
		return ""
	}
	s := m.engine.State()

	var b strings.Builder

	b.WriteString(titleStyle.Render("YOU") + "\n")
	b.WriteString(m.renderCombatant(s.Player, m.playerBar.ViewAs(healthRatio(s.Player))))
	fmt.Fprintf(&b, "Pool: %g qi\n", s.MaxPoints)
	if s.HealCooldown > 0 {
		fmt.Fprintf(&b, "Heal cooldown: %d\n", s.HealCooldown)
	}
	if s.UltimateUsed {
		b.WriteString("Ultimate Qi: spent\n")
	}
	b.WriteString(renderUnlocks(s.Player.Stacks, m.cfg.Effects.UnlockThreshold))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("OPPONENT") + "\n")
	b.WriteString(m.renderCombatant(s.Enemy, m.enemyBar.ViewAs(healthRatio(s.Enemy))))
	if n := s.Enemy.Stacks.YangPenetration; n > 0 {
		fmt.Fprintf(&b, "Penetration stacks: %d\n", n)
	}
	if n := s.Enemy.Stacks.YinCover; n > 0 {
		fmt.Fprintf(&b, "Cover stacks: %d\n", n)
	}
	if s.Enemy.Stance.Active() {
		fmt.Fprintf(&b, "Guarding: -%.0f%% (%d)\n", s.Enemy.Stance.Reduction*100, s.Enemy.Stance.Turns)
	}
	if s.Enemy.Charge.DoubleNext {
		b.WriteString("Charged: next attack doubled\n")
	}
	if s.Enemy.Charge.BonusDot != nil {
		fmt.Fprintf(&b, "Charged: next attack applies %s\n", s.Enemy.Charge.BonusDot.Source)
	}
	if s.Intent != models.ActionNone {
		fmt.Fprintf(&b, "\nIntent: %s\n", s.Intent)
	}

	stateWidth := int(float64(m.width) * 0.35)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) renderCombatant(c models.Combatant, bar string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s %d/%d\n", c.Name, bar, c.Health, c.MaxHealth)
	if c.Side == models.Enemy {
		fmt.Fprintf(&b, "Attack %d  Defense %d\n", c.BaseAttack, c.BaseDefense)
	}
	if c.Counter.Active {
		fmt.Fprintf(&b, "Counter strike x%g (%d)\n", c.Counter.Multiplier, c.Counter.Turns)
	}
	if c.NextTurnAttackDebuff {
		b.WriteString("Next turn: attack halved\n")
	}
	if c.NextTurnDefenseDebuff {
		b.WriteString("Next turn: defense halved\n")
	}
	for _, d := range c.Dots {
		fmt.Fprintf(&b, "%s: %d dmg (%d)\n", d.Source, d.Damage, d.Turns)
	}
	if n := m.ledger.PendingDamage(&c); n > 0 {
		fmt.Fprintf(&b, "Next tick: -%d\n", n)
	}
	for _, d := range c.Debuffs {
		fmt.Fprintf(&b, "%s -%d (%d)\n", d.Kind, d.Magnitude, d.Turns)
	}
	return b.String()
}

func renderUnlocks(st models.StackCounters, threshold int) string {
	unlock := func(name string, unlocked bool, count int) string {
		if unlocked {
			return fmt.Sprintf("%s: unlocked\n", name)
		}
		return fmt.Sprintf("%s: %d/%d\n", name, count, threshold)
	}
	return unlock("Extreme Yang", st.YangUnlocked, st.YangCritical) +
		unlock("Extreme Yin", st.YinUnlocked, st.YinCritical)
}

func healthRatio(c models.Combatant) float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth)
}
