package xws

import "fmt"

// Resolved — разрешённый сервис: тип, экземпляр и нормализованная конфигурация.
type Resolved struct {
	Type    *Type
	Service Service

	config   Config
	instance any
}

// Config возвращает конфигурацию, с которой был разрешён сервис
// (аргументы уже разобраны в директории и имя).
func (r *Resolved) Config() Config {
	return r.config
}

// resolve превращает конфигурацию в тип и экземпляр сервиса.
func resolve(reg *Registry, cfg Config) (*Resolved, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	ref := cfg.worker
	var (
		typ      *Type
		instance any
	)

	switch ref.kind {
	case refInstance:
		instance = ref.instance
		typ, err = reg.TypeOf(instance)
		if err != nil {
			return nil, err
		}
	case refType:
		typ = ref.typ
	case refName:
		typ, err = reg.Lookup(ref.name)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: worker not set", ErrIncoherentConfiguration)
	}

	if typ.err != nil {
		return nil, typ.err
	}
	if !typ.IsService() {
		return nil, fmt.Errorf("%w: %s (%v)", ErrNotAService, typ.name, typ.goType)
	}
	if err := validateFields(typ); err != nil {
		return nil, err
	}

	if instance == nil {
		instance = typ.New()
	}
	svc, ok := instance.(Service)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotAService, instance)
	}

	return &Resolved{
		Type:     typ,
		Service:  svc,
		config:   cfg,
		instance: instance,
	}, nil
}

// validateFields проверяет количество полей каждой роли.
func validateFields(t *Type) error {
	if len(t.fieldsWithRole(RoleErrors)) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingErrorSink, t.name)
	}
	for _, role := range []Role{RoleInputDirectory, RoleOutputDirectory} {
		if n := len(t.fieldsWithRole(role)); n > 1 {
			return fmt.Errorf("%w: %s has %d %s fields", ErrDuplicateDirectorySink, t.name, n, role)
		}
	}
	return nil
}

// directoryField возвращает единственное поле директории, если оно есть.
func directoryField(t *Type, role Role) (Field, bool) {
	fields := t.fieldsWithRole(role)
	if len(fields) == 0 {
		return Field{}, false
	}
	return fields[0], true
}
