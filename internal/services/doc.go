// Package services содержит сервисы, доступные через xws.
//
//   - weighted-sum — взвешенная сумма оценок альтернатив
//   - rank — плотное ранжирование альтернатив по значениям
//
// DefaultRegistry возвращает реестр со всеми сервисами пакета,
// NewExecutor — executor со стандартными трансформерами XMCDA.
package services
