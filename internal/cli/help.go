package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gotypfmt/internal/ui/pretty"
)

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]
{{- end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trim .}}

{{end}}` + usageTemplate

// helpRenderer renders help and usage text with the report styles. Colour
// is resolved on every call from --color and the command's output writer.
type helpRenderer struct {
	colorMode *string
}

// applyHelp installs the styled help and usage functions on cmd. Subcommands
// inherit them.
func applyHelp(cmd *cobra.Command, colorMode *string) {
	h := &helpRenderer{colorMode: colorMode}
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.render(c.OutOrStderr(), "usage", usageTemplate, c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c.OutOrStdout(), "help", helpTemplate, c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *helpRenderer) render(w io.Writer, name, text string, cmd *cobra.Command) error {
	mode := pretty.ColorAuto
	if h.colorMode != nil && pretty.IsValidColorMode(*h.colorMode) {
		mode = *h.colorMode
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(mode, w))

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"heading":    styles.SummaryTitle.Render,
		"command":    styles.Bold.Render,
		"subcommand": styles.FilePath.Render,
		"dim":        styles.Dim.Render,
		"trim":       trimTrailingSpace,
		"rpad":       func(s string, n int) string { return fmt.Sprintf("%-*s", n, s) },
		"flags":      func(fs *pflag.FlagSet) string { return flagUsages(styles, fs) },
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(w, cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

type flagRow struct {
	names   string
	argName string
	usage   string
}

// flagUsages lists the visible flags of fs in two aligned columns.
func flagUsages(styles *pretty.Styles, fs *pflag.FlagSet) string {
	var (
		rows  []flagRow
		width int
	)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		row := flagRow{names: "    --" + f.Name}
		if f.Shorthand != "" && f.ShorthandDeprecated == "" {
			row.names = "-" + f.Shorthand + ", --" + f.Name
		}
		row.argName, row.usage = pflag.UnquoteUsage(f)
		if def := defaultText(f); def != "" {
			row.usage += " (default " + def + ")"
		}
		rows = append(rows, row)
		width = max(width, len(row.names)+len(row.argName)+1)
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		plain := len(row.names)
		text := styles.Bold.Render(row.names)
		if row.argName != "" {
			plain += 1 + len(row.argName)
			text += " " + styles.Dim.Render(row.argName)
		}
		pad := strings.Repeat(" ", width-plain+2)
		lines = append(lines, "  "+text+pad+row.usage)
	}
	return strings.Join(lines, "\n")
}

// defaultText returns the default worth printing for f, or "".
func defaultText(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

func trimTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
