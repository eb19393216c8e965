// Package output provides styled status lines for the nestling CLI.
//
// # Usage
//
//	output.Success("Project mybot created")
//	output.Info("Next steps:")
//	output.Step("cd mybot")
//	output.Warn("requirements not installed")
//	output.Error("Something went wrong")
//
// # Verbose Mode
//
//	output.SetVerbose(true)
//	output.Verbose("Rendering templates/bot.py.tmpl")
//
// # Destination
//
// Lines go to os.Stdout unless SetOutput redirects them. Commands point it
// at cmd.OutOrStdout() so in-process tests can capture everything.
//
// # Styling
//
//   - Success: 🐣 green bold
//   - Error: ❌ red bold
//   - Warn: ⚠️ yellow
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output
