package xws

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Arguments — результат разбора командной строки сервиса.
type Arguments struct {
	InputDirectory  string
	OutputDirectory string
	Worker          string
}

// ParseArguments разбирает аргументы вида -i DIR -o DIR [-w WORKER].
//
// withWorker включает расширенный синтаксис с обязательным -w.
// Неизвестные или отсутствующие опции возвращают ErrInvalidArguments.
func ParseArguments(args []string, withWorker bool) (Arguments, error) {
	var parsed Arguments
	fs := newFlagSet(&parsed, withWorker)

	if err := fs.Parse(args); err != nil {
		return Arguments{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if fs.NArg() > 0 {
		return Arguments{}, fmt.Errorf("%w: unexpected arguments: %s",
			ErrInvalidArguments, strings.Join(fs.Args(), " "))
	}

	var missing []string
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed || f.Value.String() == "" {
			missing = append(missing, "-"+f.Shorthand)
		}
	})
	if len(missing) > 0 {
		return Arguments{}, fmt.Errorf("%w: missing required options: %s",
			ErrInvalidArguments, strings.Join(missing, ", "))
	}

	return parsed, nil
}

// SyntaxHelp возвращает описание синтаксиса командной строки.
func SyntaxHelp(withWorker bool) string {
	var parsed Arguments
	fs := newFlagSet(&parsed, withWorker)

	var b bytes.Buffer
	b.WriteString("usage: prg -i <inputDir> -o <outputDir>")
	if withWorker {
		b.WriteString(" -w <worker>")
	}
	b.WriteString("\n")
	b.WriteString(fs.FlagUsages())
	return b.String()
}

func newFlagSet(dst *Arguments, withWorker bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("prg", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&dst.InputDirectory, "inputDir", "i", "", "The directory where input files can be found.")
	fs.StringVarP(&dst.OutputDirectory, "outputDir", "o", "", "The directory where output files will be written.")
	if withWorker {
		fs.StringVarP(&dst.Worker, "worker", "w", "", "The worker which will execute the service.")
	}
	return fs
}
