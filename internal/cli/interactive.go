package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"merkle-snap/internal/workspace"
)

const menu = `
Options:
1. Check status
2. Modify a file
3. Build project
4. Show file contents
5. Exit
Enter your choice (1-5):`

// runInteractive seeds the demo files, takes the first snapshot and then
// serves the menu until the user exits or input ends.
func (a *app) runInteractive() error {
	fmt.Fprintln(a.out, "Initializing demo files...")
	if err := a.ws.Seed(); err != nil {
		return fmt.Errorf("failed to initialize demo files: %w", err)
	}

	fmt.Fprintln(a.out, "\nBuilding initial project state...")
	a.report(a.buildProject())

	scanner := bufio.NewScanner(a.in)
	readLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		fmt.Fprintln(a.out, menu)

		choice, ok := readLine()
		if !ok {
			fmt.Fprintln(a.out, "Exiting...")
			return scanner.Err()
		}

		switch choice {
		case "1":
			a.report(a.status())
		case "2":
			fmt.Fprintf(a.out, "Which file do you want to modify? (1-%d):\n", a.ws.Count())
			raw, ok := readLine()
			if !ok {
				continue
			}
			index, err := strconv.Atoi(raw)
			if err != nil || index < 1 || index > a.ws.Count() {
				fmt.Fprintln(a.out, "Invalid file number!")
				continue
			}
			fmt.Fprintf(a.out, "Enter new content for file %d:\n", index)
			content, _ := readLine()
			a.report(a.modify(index, content))
		case "3":
			a.report(a.buildProject())
		case "4":
			a.report(a.showContents())
		case "5":
			fmt.Fprintln(a.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option!")
		}
	}
}

func (a *app) buildProject() error {
	if err := a.build(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Project state saved!")
	return nil
}

// report prints a failed menu action without leaving the loop.
func (a *app) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, workspace.ErrInvalidIndex) {
		fmt.Fprintln(a.out, "Invalid file number!")
		return
	}
	a.logger.Debug("menu action failed", zap.Error(err))
	fmt.Fprintln(a.out, a.errorf("Error: %v", err))
}
