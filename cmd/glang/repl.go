package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"glang/interpreter-go/pkg/driver"
	"glang/interpreter-go/pkg/runtime"
)

const historyFile = ".glang_history"

// runREPL reads parser-output documents (one JSON module per submission,
// continued across lines until the braces balance) and evaluates them
// against one persistent session.
func runREPL() int {
	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	session := newSession(manifest)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, historyFile)
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintf(os.Stdout, "%s (interactive; :help for commands)\n", cliToolVersion)

	var buffer strings.Builder
	for {
		prompt := "glang> "
		if buffer.Len() > 0 {
			prompt = "  ...> "
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			// liner reports both EOF and Ctrl-C as errors; either ends the
			// session cleanly.
			fmt.Fprintln(os.Stdout)
			break
		}

		if buffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(input), ":") {
			if quit := handleMetaCommand(session, strings.TrimSpace(input)); quit {
				break
			}
			line.AppendHistory(input)
			continue
		}

		buffer.WriteString(input)
		buffer.WriteString("\n")
		if !bracesBalanced(buffer.String()) {
			continue
		}

		doc := strings.TrimSpace(buffer.String())
		buffer.Reset()
		if doc == "" {
			continue
		}
		line.AppendHistory(doc)

		module, err := driver.DecodeModule([]byte(doc))
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		val, err := session.Eval(module)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		fmt.Fprintf(os.Stdout, "=> %s\n", runtime.Display(val))
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

func handleMetaCommand(session *driver.Session, input string) (quit bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(os.Stdout, "  :inspect NAME   structural dump of a global binding")
		fmt.Fprintln(os.Stdout, "  :graph          dump the call graph")
		fmt.Fprintln(os.Stdout, "  :quit           leave the session")
	case ":inspect":
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, ":inspect requires a name")
			return false
		}
		val, err := session.Interpreter().GlobalEnvironment().Get(fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return false
		}
		fmt.Fprintln(os.Stdout, runtime.Inspect(val))
	case ":graph":
		fmt.Fprintln(os.Stdout, session.Interpreter().CallGraph().Dump())
	default:
		fmt.Fprintf(os.Stderr, "unknown command %s\n", fields[0])
	}
	return false
}

// bracesBalanced reports whether every brace and bracket opened in the
// buffer has been closed, skipping string contents.
func bracesBalanced(text string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	return depth <= 0 && !inString
}
