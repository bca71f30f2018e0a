package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pcachego/internal/meta"
)

const bashCompletionScript = `# bash completion for pcache
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_pcache()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "get set del ls clear dump info import diff memo shell completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local cachefl="--file -F --sync --codec --compress --tldr"
    local listfl="--color -c --filter -f --output -o --sort -s --titles -t --transform -x"

    case "$cmd" in
        get)
            local opts="$cachefl --default -d --path -p"
            ;;
        ls|info)
            local opts="$cachefl $listfl"
            ;;
        import)
            local opts="$cachefl --replace"
            ;;
        diff)
            local opts="$cachefl --color -c --exit-code"
            ;;
        memo)
            local opts="$cachefl --refresh -r"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$cachefl"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --codec)
            COMPREPLY=( $(compgen -W "gob json yaml" -- "$cur") )
            return 0
            ;;
        --file|-F)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # import and diff take a file
    if [[ "$cmd" == "import" || "$cmd" == "diff" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
    fi
    return 0
}

complete -F _pcache pcache
`

const zshCompletionScript = `#compdef pcache

_pcache() {
  local -a cmds
  cmds=(
    'get:print the value of a key'
    'set:store a value under a key'
    'del:delete keys'
    'ls:list keys and values'
    'clear:remove every entry'
    'dump:print the whole cache as a map'
    'info:describe the cache file'
    'import:merge a JSON object into the cache'
    'diff:compare the cache with another cache file'
    'memo:run a command once and replay its output'
    'shell:interactive prompt over one open cache'
    'completion:generate shell completion script'
  )

  local -a cachefl
  cachefl=(
  '(-F --file)'{-F,--file}'[cache name or path]:file:_files'
  '--sync[reload before reads, save after writes]'
  '--codec[snapshot codec]:codec:(gob json yaml)'
  '--compress[snappy-compress the payload]'
  '--tldr[show tldr page]'
  )

  local -a listfl
  listfl=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort by key or value]:sort:(key -key value -value)'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '(-x --transform)'{-x,--transform}'[column transforms]:transforms'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'pcache commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    get)
      _arguments -C \
        $cachefl \
        '(-d --default)'{-d,--default}'[value when absent]:default' \
        '(-p --path)'{-p,--path}'[gjson path]:path' \
        '1:key'
      ;;
    set)
      _arguments -C $cachefl '1:key' '2:value'
      ;;
    del)
      _arguments -C $cachefl '*:key'
      ;;
    ls|info)
      _arguments -C $cachefl $listfl
      ;;
    import)
      _arguments -C $cachefl '--replace[clear before importing]' '1:file:_files'
      ;;
    diff)
      _arguments -C \
        $cachefl \
        '(-c --color)'{-c,--color}'[enable colored diff]' \
        '--exit-code[fail when caches differ]' \
        '1:other:_files'
      ;;
    memo)
      _arguments -C $cachefl '(-r --refresh)'{-r,--refresh}'[ignore cached output]' '*::command:_normal'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $cachefl
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _pcache pcache
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: pcache completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "pcache completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
