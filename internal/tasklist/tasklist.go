// Package tasklist reads plain-text checklist documents that drive the
// loop: `- [ ]` open, `- [/]` in progress, `- [x]` done.
package tasklist

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// Checklist line patterns. Leading whitespace is allowed.
var (
	openRE       = regexp.MustCompile(`^\s*- \[ \]\s*(.*)$`)
	inProgressRE = regexp.MustCompile(`^\s*- \[/\]\s*(.*)$`)
	doneRE       = regexp.MustCompile(`^\s*- \[[xX]\]\s*(.*)$`)
	anyItemRE    = regexp.MustCompile(`^\s*- \[[ /xX]\]`)
)

// scanLines runs fn over every line of the file.
func scanLines(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	return scanner.Err()
}

// NextOpen returns the text of the first open or in-progress item.
// ok is false when every item is done or the file holds no checklist lines.
func NextOpen(path string) (task string, ok bool, err error) {
	err = scanLines(path, func(line string) {
		if ok {
			return
		}
		if m := inProgressRE.FindStringSubmatch(line); m != nil {
			task, ok = strings.TrimSpace(m[1]), true
			return
		}
		if m := openRE.FindStringSubmatch(line); m != nil {
			task, ok = strings.TrimSpace(m[1]), true
		}
	})
	if err != nil {
		return "", false, err
	}
	return task, ok, nil
}

// AllComplete reports whether the document exists, contains at least one
// checklist line, and every checklist line is done.
func AllComplete(path string) (bool, error) {
	total, done := 0, 0
	err := scanLines(path, func(line string) {
		if !anyItemRE.MatchString(line) {
			return
		}
		total++
		if doneRE.MatchString(line) {
			done++
		}
	})
	if err != nil {
		return false, err
	}
	return total > 0 && done == total, nil
}

// Counts returns the number of open, in-progress and done items.
func Counts(path string) (open, inProgress, done int, err error) {
	err = scanLines(path, func(line string) {
		switch {
		case openRE.MatchString(line):
			open++
		case inProgressRE.MatchString(line):
			inProgress++
		case doneRE.MatchString(line):
			done++
		}
	})
	return open, inProgress, done, err
}
