// Package xws реализует декларативное выполнение сервисов.
//
// # Обзор
//
// Сервис — это Go-тип, который реализует Service и описывает свои поля
// через Define: какие поля получают ошибки входных данных, пути
// директорий, значения из входных файлов, и какие поля записываются
// в выходные файлы. Executor делает всё остальное:
//
//	var CriteriaType = xws.Define("criteria", NewCriteria,
//	    xws.ErrorsField("errors", func(s *Criteria) *[]*xws.InvalidInputError { return &s.Errors }),
//	    xws.Input("criteria", func(s *Criteria) *string { return &s.Criteria }),
//	    xws.Output("result", func(s *Criteria) *string { return &s.Result }, xws.Named("out.xml")),
//	)
//
//	exec, _ := xws.New(xws.Options{Registry: reg, Input: in, Output: out, Writer: w})
//	exec.Configure(xws.NewConfig().WithArguments(os.Args[1:]))
//	result, err := exec.Execute(ctx)
//
// # Порядок выполнения
//
//  1. Разрешение сервиса (по имени, по типу или готовым экземпляром)
//  2. Проверка и создание директорий, внедрение путей
//  3. Внедрение входов; ошибки накапливаются
//  4. Публикация ошибок в поля ошибок
//  5. Вызов Service.Execute, только если ошибок нет
//  6. Запись выходов, даже если сервис не вызывался
//
// # Ошибки
//
// Два класса ошибок:
//   - структурные (Err* в errors.go) прерывают выполнение и возвращаются из Execute
//   - ошибки входных данных (*InvalidInputError) накапливаются и передаются сервису
//
// Service.Execute может вернуть *InvalidInputError: ошибка добавляется
// к накопленным, выходы всё равно записываются. Любая другая ошибка
// тела фатальна (ErrServiceFailed).
//
// # Файлы пакета
//
//   - service.go   — Service, Field, Define
//   - registry.go  — Registry типов сервисов
//   - config.go    — Config и Ref
//   - cmdline.go   — разбор -i/-o/-w
//   - transform.go — интерфейсы трансформеров и записи
//   - resolver.go  — разрешение сервиса
//   - inject.go    — директории и входы
//   - aggregate.go — публикация ошибок
//   - output.go    — запись выходов
//   - executor.go  — Executor
package xws
