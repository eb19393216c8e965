// Package input provides interactive terminal input utilities.
//
// # Usage
//
// Create a Prompter over the streams the command is wired to, so tests can
// substitute a strings.Reader for stdin:
//
//	p := input.New(cmd.InOrStdin(), cmd.OutOrStdout())
//
//	name, err := p.Required("Project name")
//	size, err := p.Choose("Project size", []string{"small", "middle", "pro"})
//
// Every prompt returns ErrNoInput when the input stream ends before an
// answer is given, so a closed stdin aborts instead of looping forever.
//
// # Styling
//
// The package uses lipgloss for consistent terminal styling:
//   - Prompts are displayed in cyan and bold
//   - Hints (defaults and choices) are displayed in gray
//   - Rejected answers are reported in red before re-prompting
//
// # Non-Interactive Mode
//
// Prompts are only shown for values not supplied on the command line:
//
//	if tierFlag != "" {
//	    tier = tierFlag
//	} else {
//	    tier, err = p.Choose("Project size", names)
//	}
package input
