package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/josephlewis42/dosbatch/core/dosfs"
)

const dirTimeFormat = "01-02-06  15:04"

// splitName splits a file name into its 8.3 base and extension.
func splitName(name string) (string, string) {
	name = strings.ToUpper(name)
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		return name[:idx], name[idx+1:]
	}
	return name, ""
}

// Dir implements the COMMAND.COM DIR command.
func Dir(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "DIR [drive:][path][filename] [/W] [/B]",
		Short: "Displays a list of files and subdirectories in a directory.",
	}

	opts := cmd.Flags()
	wide := opts.Bool('W', "uses wide list format")
	bare := opts.Bool('B', "uses bare format (no heading information or summary)")

	return cmd.Run(proc, func() int {
		target := "."
		if args := opts.Args(); len(args) > 0 {
			target = args[0]
		}

		abs, err := proc.FS.Abs(target)
		if err != nil {
			fmt.Fprintln(proc.Stderr, "Invalid drive specification")
			return 1
		}

		dir, pattern := abs, "*.*"
		if dosfs.HasWildcards(abs) {
			dir, pattern = dosfs.Split(abs)
		} else if info, err := proc.FS.Stat(abs); err == nil && !info.IsDir() {
			dir, pattern = dosfs.Split(abs)
		}

		infos, err := proc.FS.ReadDir(dir)
		if err != nil {
			proc.Log.Debug().Str("path", dir).Err(err).Msg("DIR failed")
			fmt.Fprintln(proc.Stderr, "File not found")
			return 1
		}

		var matched []os.FileInfo
		for _, info := range infos {
			if dosfs.Match(pattern, info.Name()) {
				matched = append(matched, info)
			}
		}

		if len(matched) == 0 {
			if !*bare {
				printDirHeader(proc, dir)
			}
			fmt.Fprintln(proc.Stderr, "File not found")
			return 1
		}

		switch {
		case *bare:
			for _, info := range matched {
				fmt.Fprintln(proc.Stdout, strings.ToUpper(info.Name()))
			}
			return 0
		case *wide:
			printDirHeader(proc, dir)
			printDirWide(proc, matched)
		default:
			printDirHeader(proc, dir)
			for _, info := range matched {
				base, ext := splitName(info.Name())
				size := FormatBytes(info.Size())
				if info.IsDir() {
					size = "<DIR>"
				}
				fmt.Fprintf(proc.Stdout, "%-8s %-3s %14s %s\n", base, ext, size, info.ModTime().Format(dirTimeFormat))
			}
		}

		printDirSummary(proc, matched)
		return 0
	})
}

func printDirHeader(proc *Process, dir string) {
	fmt.Fprintf(proc.Stdout, " Volume in drive %s has no label\n", dir[:1])
	fmt.Fprintf(proc.Stdout, " Directory of %s\n", dir)
	fmt.Fprintln(proc.Stdout)
}

func printDirWide(proc *Process, infos []os.FileInfo) {
	const columns = 5

	var line strings.Builder
	for i, info := range infos {
		name := strings.ToUpper(info.Name())
		if info.IsDir() {
			name = "[" + name + "]"
		}
		fmt.Fprintf(&line, "%-16s", name)

		if (i+1)%columns == 0 || i == len(infos)-1 {
			fmt.Fprintln(proc.Stdout, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
}

func printDirSummary(proc *Process, infos []os.FileInfo) {
	var files, dirs int
	var total int64
	for _, info := range infos {
		if info.IsDir() {
			dirs++
			continue
		}
		files++
		total += info.Size()
	}

	fmt.Fprintf(proc.Stdout, "%9d file(s) %14s bytes\n", files, FormatBytes(total))
	fmt.Fprintf(proc.Stdout, "%9d dir(s)\n", dirs)
}

var _ ProgramFunc = Dir

func init() {
	addCmd(Dir, "DIR")
}
