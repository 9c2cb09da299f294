package xws

import (
	"fmt"
	"slices"
)

type refKind int

const (
	refNone refKind = iota
	refName
	refType
	refInstance
)

// Ref — идентификация сервиса: по имени, по типу или готовым экземпляром.
//
// Нулевое значение означает «сервис не задан».
type Ref struct {
	kind     refKind
	name     string
	typ      *Type
	instance any
}

// ByName ссылается на тип, зарегистрированный в реестре под именем name.
func ByName(name string) Ref {
	if name == "" {
		return Ref{}
	}
	return Ref{kind: refName, name: name}
}

// ByType ссылается на тип напрямую.
func ByType(t *Type) Ref {
	if t == nil {
		return Ref{}
	}
	return Ref{kind: refType, typ: t}
}

// ByInstance ссылается на готовый экземпляр; он не пересоздаётся.
func ByInstance(instance any) Ref {
	if instance == nil {
		return Ref{}
	}
	return Ref{kind: refInstance, instance: instance}
}

// IsZero сообщает, что сервис не задан.
func (r Ref) IsZero() bool {
	return r.kind == refNone
}

// Name возвращает имя сервиса, если оно известно без разрешения.
func (r Ref) Name() string {
	switch r.kind {
	case refName:
		return r.name
	case refType:
		return r.typ.name
	}
	return ""
}

// String возвращает строковое представление Ref.
func (r Ref) String() string {
	switch r.kind {
	case refName:
		return "name:" + r.name
	case refType:
		return "type:" + r.typ.name
	case refInstance:
		return fmt.Sprintf("instance:%T", r.instance)
	}
	return "none"
}

// Config — неизменяемая конфигурация выполнения.
//
// Методы With* возвращают новую конфигурацию. Задаются либо сырые
// аргументы командной строки, либо сервис (и директории) напрямую.
type Config struct {
	args      []string
	hasArgs   bool
	inputDir  string
	outputDir string
	worker    Ref
	noWrite   bool
}

// NewConfig возвращает пустую конфигурацию с включённой записью.
func NewConfig() Config {
	return Config{}
}

// WithArguments задаёт сырые аргументы (-i, -o, -w). nil снимает аргументы.
func (c Config) WithArguments(args []string) Config {
	c.args = slices.Clone(args)
	c.hasArgs = args != nil
	return c
}

// WithInputDirectory задаёт входную директорию ("" — не задана).
func (c Config) WithInputDirectory(dir string) Config {
	c.inputDir = dir
	return c
}

// WithOutputDirectory задаёт выходную директорию ("" — не задана).
func (c Config) WithOutputDirectory(dir string) Config {
	c.outputDir = dir
	return c
}

// WithWorker задаёт сервис, заменяя ранее заданный.
func (c Config) WithWorker(ref Ref) Config {
	c.worker = ref
	return c
}

// WithWriteEnabled включает или выключает запись выходных файлов.
func (c Config) WithWriteEnabled(enabled bool) Config {
	c.noWrite = !enabled
	return c
}

// Arguments возвращает копию сырых аргументов, nil если не заданы.
func (c Config) Arguments() []string {
	if !c.hasArgs {
		return nil
	}
	return slices.Clone(c.args)
}

// InputDirectory возвращает входную директорию.
func (c Config) InputDirectory() string { return c.inputDir }

// OutputDirectory возвращает выходную директорию.
func (c Config) OutputDirectory() string { return c.outputDir }

// Worker возвращает ссылку на сервис.
func (c Config) Worker() Ref { return c.worker }

// WriteEnabled сообщает, включена ли запись.
func (c Config) WriteEnabled() bool { return !c.noWrite }

// normalize проверяет согласованность и разбирает аргументы.
//
// Аргументы допустимы, только если директории и сервис не заданы;
// без аргументов сервис обязателен.
func (c Config) normalize() (Config, error) {
	useArgs := c.hasArgs && c.inputDir == "" && c.outputDir == "" && c.worker.IsZero()
	dontUseArgs := !c.hasArgs && !c.worker.IsZero()

	switch {
	case useArgs:
		parsed, err := ParseArguments(c.args, true)
		if err != nil {
			return c, err
		}
		out := c.WithArguments(nil)
		out.inputDir = parsed.InputDirectory
		out.outputDir = parsed.OutputDirectory
		out.worker = ByName(parsed.Worker)
		return out, nil
	case dontUseArgs:
		return c, nil
	default:
		return c, fmt.Errorf("%w: arguments=%t worker=%s input=%q output=%q",
			ErrIncoherentConfiguration, c.hasArgs, c.worker, c.inputDir, c.outputDir)
	}
}
