package xws

import "fmt"

// publishErrors записывает накопленные ошибки во все поля ошибок.
//
// Поле записывается всегда, в том числе пустым списком: потребитель
// не должен отличать «ещё не запускался» от «ошибок нет» по nil.
func (e *Executor) publishErrors(ex *execution) error {
	snapshot := make([]*InvalidInputError, len(ex.failures))
	copy(snapshot, ex.failures)

	for _, f := range ex.res.Type.fieldsWithRole(RoleErrors) {
		value, err := e.output.As(snapshot, f.Type)
		if err != nil {
			return fmt.Errorf("%w: errors field %s: %v", ErrTransformerFieldMismatch, f.Name, err)
		}
		if err := f.set(ex.res.instance, value); err != nil {
			return err
		}
	}

	return nil
}
