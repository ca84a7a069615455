package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pthm/hxtoast"
	"github.com/pthm/hxtoast/example"
)

var (
	stepStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))

	sourdoughStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Width(48)
	ryeStyle = sourdoughStyle.
			BorderForeground(lipgloss.Color("180")).
			Foreground(lipgloss.Color("180"))
)

func scriptCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Walk through adding and closing toasts in the terminal",
		Long: `Run a scripted session against one toast scope and print the
rendered toasts after every step, newest first.

Examples:
  hxtoast script
  hxtoast script --delay=1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), cmd.OutOrStdout(), delay)
		},
	}

	cmd.Flags().DurationVarP(&delay, "delay", "d", 0, "Pause between steps")

	return cmd
}

// terminalBread renders a toast as a bordered box of plain text.
func terminalBread(style lipgloss.Style, footer string) hxtoast.Renderer {
	return hxtoast.RendererFunc(func(ctx context.Context, p hxtoast.Props) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			lines := []string{
				fmt.Sprintf("this is toast #%v", p.Payload["count"]),
				fmt.Sprintf("something happened at %v", p.Payload["date"]),
			}
			if footer != "" {
				lines = append(lines, footer)
			}
			lines = append(lines, noteStyle.Render("id "+string(p.ID)))
			_, err := io.WriteString(w, style.Render(strings.Join(lines, "\n"))+"\n")
			return err
		})
	})
}

func runScript(ctx context.Context, w io.Writer, delay time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	presenter := hxtoast.NewPresenter(
		hxtoast.WithRenderer(example.KindSourdough, terminalBread(sourdoughStyle, "")),
		hxtoast.WithRenderer(example.KindRye, terminalBread(ryeStyle, "This will disappear soon!")),
	)
	provider := hxtoast.NewProvider()
	defer provider.CloseAll()

	reg := provider.Open("script").Registry()
	cancel := reg.Subscribe(func(entries []hxtoast.Entry) {
		fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("toasts right now: %d", len(entries))))
	})
	defer cancel()

	show := func(step string) error {
		fmt.Fprintln(w)
		fmt.Fprintln(w, stepStyle.Render(step))
		var buf bytes.Buffer
		if err := presenter.Component(reg).Render(ctx, &buf); err != nil {
			return err
		}
		if buf.Len() == 0 {
			fmt.Fprintln(w, emptyStyle.Render("(no toasts)"))
		} else {
			_, _ = w.Write(buf.Bytes())
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		return nil
	}

	add := func(count int) hxtoast.ID {
		kind := example.KindSourdough
		if count%2 == 1 {
			kind = example.KindRye
		}
		return reg.Add(hxtoast.Payload{
			"count": count,
			"date":  time.Now().UTC().Format(time.RFC3339),
		}, hxtoast.Kind(kind))
	}

	if err := show("start"); err != nil {
		return err
	}
	first := add(0)
	if err := show("add toast #0"); err != nil {
		return err
	}
	add(1)
	if err := show("add toast #1"); err != nil {
		return err
	}

	// Close the way a renderer would, through its props.
	e, _ := reg.Get(first)
	presenter.Props(reg, e).Close.Close()
	if err := show("close toast #0"); err != nil {
		return err
	}
	reg.Remove(first)
	if err := show("close toast #0 again"); err != nil {
		return err
	}

	other := provider.Open("elsewhere").Registry()
	other.Add(hxtoast.Payload{"count": 99}, hxtoast.Kind(example.KindSourdough))
	if err := show(fmt.Sprintf("another scope holds %d toast; this one is unchanged", other.Len())); err != nil {
		return err
	}

	provider.Close("script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, stepStyle.Render("scope closed"))
	return nil
}
