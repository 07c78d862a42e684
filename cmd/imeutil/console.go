package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/imecore/internal/bootstrap"
	"github.com/username/imecore/internal/engine"
	"github.com/username/imecore/internal/session"
	"github.com/username/imecore/internal/switcher"
)

func newConsoleCmd() *cobra.Command {
	var dataDir, buildDir, userDataDir string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive REPL that drives a schema session with simulated key sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := bootstrap.Paths{DataDir: dataDir, BuildDir: buildDir, UserDataDir: userDataDir}
			return runConsole(paths)
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "s", ".", "directory holding schema and dict YAML sources")
	cmd.Flags().StringVarP(&buildDir, "dest", "d", "build", "directory compiled artifacts are written to")
	cmd.Flags().StringVar(&userDataDir, "user-data-dir", "", "directory holding the user dictionary sqlite file")
	return cmd
}

// consoleState is the REPL's working state: one Service and, at most, one
// open session at a time.
type consoleState struct {
	paths  bootstrap.Paths
	svc    *session.Service
	id     session.ID
	sess   *session.Session
	sw     *switcher.Switcher
	swMenu []switcher.Item
}

func runConsole(paths bootstrap.Paths) error {
	st := &consoleState{paths: paths, svc: session.New(paths.SchemaLoader())}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("imeutil console — type 'exit' to quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "exit" {
			break
		}
		st.dispatch(line)
	}
	return scanner.Err()
}

func (st *consoleState) dispatch(line string) {
	switch {
	case line == "":
		return
	case line == "print schema list":
		st.printSchemaList()
	case strings.HasPrefix(line, "select schema "):
		st.selectSchema(strings.TrimPrefix(line, "select schema "))
	case line == "print candidate list":
		st.printCandidateList()
	case strings.HasPrefix(line, "select candidate "):
		st.selectCandidate(strings.TrimPrefix(line, "select candidate "))
	case strings.HasPrefix(line, "set option "):
		st.setOption(strings.TrimPrefix(line, "set option "))
	case line == "print switcher menu":
		st.printSwitcherMenu()
	case strings.HasPrefix(line, "select switcher "):
		st.selectSwitcher(strings.TrimPrefix(line, "select switcher "))
	default:
		st.simulateKeys(line)
	}
}

func (st *consoleState) printSchemaList() {
	entries, err := os.ReadDir(st.paths.DataDir)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	var ids []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".schema.yaml"); ok {
			ids = append(ids, name)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Println(id)
	}
}

func (st *consoleState) selectSchema(id string) {
	id = strings.TrimSpace(id)
	sid, err := st.svc.CreateSession(id)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	st.id = sid
	st.sess, _ = st.svc.GetSession(sid)
	fmt.Println("selected schema", id)
}

func (st *consoleState) printCandidateList() {
	if st.sess == nil {
		fmt.Println("no schema selected")
		return
	}
	back := st.sess.Engine().Context().Composition().Back()
	if back == nil || !back.HasMenu() {
		fmt.Println("(empty)")
		return
	}
	for i, c := range back.Menu {
		marker := " "
		if i == back.SelectedIndex {
			marker = "*"
		}
		fmt.Printf("%s %d: %s (%.3f)\n", marker, i, c.Text, c.Quality)
	}
}

func (st *consoleState) selectCandidate(arg string) {
	if st.sess == nil {
		fmt.Println("no schema selected")
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !st.sess.Engine().Select(n) {
		fmt.Println("error: selection out of range")
	}
}

func (st *consoleState) setOption(arg string) {
	if st.sess == nil {
		fmt.Println("no schema selected")
		return
	}
	arg = strings.TrimSpace(arg)
	value := true
	if strings.HasPrefix(arg, "!") {
		value = false
		arg = arg[1:]
	}
	st.sess.Engine().Context().SetOption(arg, value)
}

// printSwitcherMenu loads the switcher for the active schema and lists
// its schema/option items (spec §4.K).
func (st *consoleState) printSwitcherMenu() {
	if st.sess == nil {
		fmt.Println("no schema selected")
		return
	}
	sw, err := st.paths.LoadSwitcher(st.sess.SchemaID())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	st.sw = sw
	st.swMenu = sw.Menu(st.sess.Engine().Context())
	for i, item := range st.swMenu {
		marker := " "
		if item.IsSchema && item.SchemaID == st.sess.SchemaID() {
			marker = "*"
		} else if !item.IsSchema && item.OptionValue == st.sess.Engine().Context().GetOption(item.OptionName) {
			marker = "*"
		}
		fmt.Printf("%s %d: %s\n", marker, i, item.Text)
	}
}

// selectSwitcher applies the n'th item printed by "print switcher menu":
// a schema item reloads the active session under the new schema id, an
// option item toggles (or sets, for a radio group) that option.
func (st *consoleState) selectSwitcher(arg string) {
	if st.sess == nil || st.sw == nil {
		fmt.Println("no switcher menu printed yet")
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 || n >= len(st.swMenu) {
		fmt.Println("error: selection out of range")
		return
	}
	schemaID := st.sw.Apply(st.sess.Engine().Context(), st.swMenu[n])
	if schemaID != "" {
		st.selectSchema(schemaID)
	}
}

// simulateKeys feeds line through the active session one rune at a time,
// the "otherwise treat the line as a simulated key sequence" fallback
// (spec §6.3).
func (st *consoleState) simulateKeys(line string) {
	if st.sess == nil {
		fmt.Println("no schema selected")
		return
	}
	var commit strings.Builder
	var preedit string
	for _, r := range line {
		result := st.sess.ProcessKey(engine.KeyEvent{KeySym: uint32(r)})
		if result.CommitText != "" {
			commit.WriteString(st.sess.GetCommit())
		}
		preedit = result.Preedit
	}
	if commit.Len() > 0 {
		fmt.Println("commit:", commit.String())
	}
	fmt.Println("preedit:", preedit)
}
