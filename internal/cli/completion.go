package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Commands lists adminctl's commands and their subcommands. Completion scripts
// are generated from it.
var Commands = map[string][]string{
	"login":      nil,
	"logout":     nil,
	"whoami":     nil,
	"users":      {"list", "create", "enable", "disable", "delete", "assign-role"},
	"roles":      {"list", "get", "create", "delete"},
	"teachers":   {"list"},
	"tx":         {"list", "get"},
	"price":      {"get", "add", "update"},
	"discounts":  {"list", "add", "update", "activate", "deactivate"},
	"dashboard":  nil,
	"coins":      {"balance", "buy", "deduct", "deduct-for", "price", "history"},
	"watch":      nil,
	"completion": {"bash", "zsh", "fish"},
}

// GlobalFlags are accepted before any command.
var GlobalFlags = []string{"-config", "-o", "-jsonpath", "-log-level"}

func commandNames() []string {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bashScript() string {
	var b strings.Builder
	b.WriteString("# bash completion for adminctl\n\n_adminctl_completion() {\n")
	b.WriteString("    local cur prev\n    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	fmt.Fprintf(&b, "    local commands=%q\n", strings.Join(commandNames(), " "))
	fmt.Fprintf(&b, "    local global_flags=%q\n\n", strings.Join(GlobalFlags, " "))
	b.WriteString("    case \"${prev}\" in\n")
	for _, name := range commandNames() {
		if subs := Commands[name]; len(subs) > 0 {
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n            return 0\n            ;;\n",
				name, strings.Join(subs, " "))
		}
	}
	b.WriteString("        -config)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n")
	b.WriteString("        -o)\n            COMPREPLY=( $(compgen -W \"table json\" -- \"${cur}\") )\n            return 0\n            ;;\n")
	b.WriteString("    esac\n\n")
	b.WriteString("    COMPREPLY=( $(compgen -W \"${commands} ${global_flags}\" -- \"${cur}\") )\n}\n\n")
	b.WriteString("complete -F _adminctl_completion adminctl\n")
	return b.String()
}

func zshScript() string {
	var b strings.Builder
	b.WriteString("#compdef adminctl\n\n_adminctl() {\n    local -a commands\n    commands=(\n")
	for _, name := range commandNames() {
		fmt.Fprintf(&b, "        '%s'\n", name)
	}
	b.WriteString("    )\n\n    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, name := range commandNames() {
		if subs := Commands[name]; len(subs) > 0 {
			fmt.Fprintf(&b, "        %s) _values 'subcommand' %s ;;\n", name, strings.Join(subs, " "))
		}
	}
	b.WriteString("    esac\n}\n\n_adminctl \"$@\"\n")
	return b.String()
}

func fishScript() string {
	var b strings.Builder
	b.WriteString("# fish completion for adminctl\n\n")
	for _, name := range commandNames() {
		fmt.Fprintf(&b, "complete -c adminctl -f -n \"__fish_use_subcommand\" -a %q\n", name)
		for _, sub := range Commands[name] {
			fmt.Fprintf(&b, "complete -c adminctl -f -n \"__fish_seen_subcommand_from %s\" -a %q\n", name, sub)
		}
	}
	b.WriteString("complete -c adminctl -o config -r -d \"Configuration file path\"\n")
	b.WriteString("complete -c adminctl -o o -x -a \"table json\" -d \"Output format\"\n")
	b.WriteString("complete -c adminctl -o jsonpath -x -d \"Filter JSON output\"\n")
	return b.String()
}

// CompletionScript returns the completion script for shell.
func CompletionScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashScript(), nil
	case "zsh":
		return zshScript(), nil
	case "fish":
		return fishScript(), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell string) error {
	script, err := CompletionScript(shell)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, script)
	return err
}

// InstallCompletion writes the script under home and returns its path.
func InstallCompletion(home, shell string) (string, error) {
	script, err := CompletionScript(shell)
	if err != nil {
		return "", err
	}

	var path string
	switch shell {
	case "bash":
		path = filepath.Join(home, ".bash_completion.d", "adminctl")
	case "zsh":
		path = filepath.Join(home, ".zsh", "completion", "_adminctl")
	case "fish":
		path = filepath.Join(home, ".config", "fish", "completions", "adminctl.fish")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create completion directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("failed to write completion script: %w", err)
	}
	return path, nil
}
