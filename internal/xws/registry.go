package xws

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry — реестр типов сервисов.
//
// Позволяет получать тип по имени (для аргумента -w) и по Go-типу
// (для уже созданного экземпляра). Потокобезопасен.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Type
	byGoTyp map[reflect.Type]*Type
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Type),
		byGoTyp: make(map[reflect.Type]*Type),
	}
}

// Register регистрирует тип в реестре.
// Если тип с таким именем уже существует, он будет перезаписан.
//
// Один Go-тип может быть зарегистрирован под несколькими именами,
// TypeOf тогда возвращает последний зарегистрированный из них.
func (r *Registry) Register(t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, replaced := r.byName[t.name]
	r.byName[t.name] = t
	r.byGoTyp[t.goType] = t
	if replaced && old.goType != t.goType {
		r.rebindGoType(old)
	}
}

// Lookup возвращает тип по имени.
// Возвращает ErrUnresolvableWorkerType, если тип не найден.
func (r *Registry) Lookup(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableWorkerType, name)
	}
	return t, nil
}

// TypeOf возвращает тип, зарегистрированный для Go-типа экземпляра.
func (r *Registry) TypeOf(instance any) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goType := reflect.TypeOf(instance)
	t, exists := r.byGoTyp[goType]
	if !exists {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvableWorkerType, goType)
	}
	return t, nil
}

// Has проверяет, зарегистрирован ли тип.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.byName[name]
	return exists
}

// Names возвращает отсортированный список имён зарегистрированных типов.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count возвращает количество зарегистрированных типов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Unregister удаляет тип из реестра.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.byName[name]; ok {
		delete(r.byName, name)
		r.rebindGoType(t)
	}
}

// rebindGoType убирает привязку Go-типа к удалённому описанию removed.
// Если Go-тип остался под другими именами, он привязывается к первому
// из них по алфавиту. Вызывается под r.mu.
func (r *Registry) rebindGoType(removed *Type) {
	if r.byGoTyp[removed.goType] != removed {
		return
	}
	delete(r.byGoTyp, removed.goType)

	var next *Type
	for name, t := range r.byName {
		if t.goType == removed.goType && (next == nil || name < next.name) {
			next = t
		}
	}
	if next != nil {
		r.byGoTyp[next.goType] = next
	}
}
