package cmd

import (
	"fmt"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run() error {
	switch c.Shell {
	case "bash":
		return c.generateBash()
	case "zsh":
		return c.generateZsh()
	case "fish":
		return c.generateFish()
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}
}

func (c *CompletionCmd) generateBash() error {
	script := `# bash completion for maker-chips

_maker_chips_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="generate patterns inspect completion version"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Options for generate command
    if [[ ${COMP_WORDS[1]} == "generate" ]]; then
        case "${prev}" in
            --config)
                COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)' -- ${cur}) )
                return 0
                ;;
            --image)
                COMPREPLY=( $(compgen -f -X '!*.@(png|jpg|jpeg)' -- ${cur}) )
                return 0
                ;;
            --assembly)
                COMPREPLY=( $(compgen -W "flat printable" -- ${cur}) )
                return 0
                ;;
            *)
                if [[ ${cur} == -* ]]; then
                    opts="--radius --height --rounding --center-radius --pattern --assembly --qr-content --qr-size --qr-depth --image --image-height --image-depth --image-threshold --image-invert --config --resolution --ascii-stl --open -v --verbose -h --help"
                    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
                else
                    COMPREPLY=( $(compgen -f -X '!*.@(3mf|glb|stl)' -- ${cur}) )
                fi
                return 0
                ;;
        esac
    fi

    # Options for inspect command
    if [[ ${COMP_WORDS[1]} == "inspect" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="--xml -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.3mf' -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _maker_chips_completions maker-chips
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateZsh() error {
	script := `#compdef maker-chips

_maker_chips() {
    local -a commands
    commands=(
        'generate:Generate a maker chip (.3mf, .glb or .stl)'
        'patterns:List the built-in marking patterns'
        'inspect:Inspect a 3MF file and show its contents'
        'completion:Generate shell completion script'
        'version:Show version information'
    )

    local -a generate_opts
    generate_opts=(
        '--radius[Chip radius in mm]:radius:'
        '--height[Chip height in mm]:height:'
        '--rounding[Edge rounding radius in mm]:rounding:'
        '--center-radius[Center disk radius in mm]:radius:'
        '--pattern[Marking pattern id]:pattern:'
        '--assembly[Part layout]:assembly:(flat printable)'
        '--qr-content[Embed a QR code part]:content:'
        '--qr-size[QR code side length in mm]:size:'
        '--qr-depth[QR code extrusion depth in mm]:depth:'
        '--image[Embed an engraved image part]:image:_files -g "*.{png,jpg,jpeg}"'
        '--image-height[Image footprint height in mm]:height:'
        '--image-depth[Image extrusion depth in mm]:depth:'
        '--image-threshold[Luminance cutoff]:threshold:'
        '--image-invert[Engrave light pixels instead of dark ones]'
        '--config[Load parameters from a YAML file]:config:_files -g "*.{yaml,yml}"'
        '--resolution[Mesh resolution]:cells:'
        '--ascii-stl[Write .stl output as text]'
        '--open[Open the result file]'
        '(-v --verbose)'{-v,--verbose}'[Enable verbose output]'
        '(-h --help)'{-h,--help}'[Show help]'
        '*:output file:_files -g "*.{3mf,glb,stl}"'
    )

    local -a inspect_opts
    inspect_opts=(
        '--xml[Print the highlighted model XML]'
        '(-h --help)'{-h,--help}'[Show help]'
        '*:3mf file:_files -g "*.3mf"'
    )

    local -a completion_shells
    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                generate)
                    _arguments $generate_opts
                    ;;
                inspect)
                    _arguments $inspect_opts
                    ;;
                completion)
                    _describe 'shell' completion_shells
                    ;;
                patterns|version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_maker_chips
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateFish() error {
	script := `# fish completion for maker-chips

# Main commands
complete -c maker-chips -f -n "__fish_use_subcommand" -a "generate" -d "Generate a maker chip"
complete -c maker-chips -f -n "__fish_use_subcommand" -a "patterns" -d "List the built-in marking patterns"
complete -c maker-chips -f -n "__fish_use_subcommand" -a "inspect" -d "Inspect a 3MF file and show its contents"
complete -c maker-chips -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"
complete -c maker-chips -f -n "__fish_use_subcommand" -a "version" -d "Show version information"

# generate command options
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l radius -d "Chip radius in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l height -d "Chip height in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l rounding -d "Edge rounding radius in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l center-radius -d "Center disk radius in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l pattern -d "Marking pattern id" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l assembly -d "Part layout" -r -a "flat printable"
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l qr-content -d "Embed a QR code part" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l qr-size -d "QR code side length in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l qr-depth -d "QR code extrusion depth in mm" -r
complete -c maker-chips -n "__fish_seen_subcommand_from generate" -l image -d "Embed an engraved image part" -r -a "(__fish_complete_suffix .png)"
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l image-height -d "Image footprint height in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l image-depth -d "Image extrusion depth in mm" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l image-threshold -d "Luminance cutoff" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l image-invert -d "Engrave light pixels instead of dark ones"
complete -c maker-chips -n "__fish_seen_subcommand_from generate" -l config -d "Load parameters from a YAML file" -r -a "(__fish_complete_suffix .yaml)"
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l resolution -d "Mesh resolution" -r
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l ascii-stl -d "Write .stl output as text"
complete -c maker-chips -f -n "__fish_seen_subcommand_from generate" -l open -d "Open the result file"

# inspect command options
complete -c maker-chips -f -n "__fish_seen_subcommand_from inspect" -l xml -d "Print the highlighted model XML"
complete -c maker-chips -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .3mf)" -d "3MF file"

# completion command options
complete -c maker-chips -f -n "__fish_seen_subcommand_from completion" -a "bash" -d "Generate bash completion"
complete -c maker-chips -f -n "__fish_seen_subcommand_from completion" -a "zsh" -d "Generate zsh completion"
complete -c maker-chips -f -n "__fish_seen_subcommand_from completion" -a "fish" -d "Generate fish completion"

# version command options
complete -c maker-chips -f -n "__fish_seen_subcommand_from version" -s h -l help -d "Show help"
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for maker-chips.

Examples:
  # Bash
  maker-chips completion bash > /etc/bash_completion.d/maker-chips
  # or
  maker-chips completion bash > ~/.local/share/bash-completion/completions/maker-chips

  # Zsh
  maker-chips completion zsh > ~/.zsh/completion/_maker-chips
  # or add to .zshrc:
  autoload -U compinit && compinit

  # Fish
  maker-chips completion fish > ~/.config/fish/completions/maker-chips.fish
`
}
