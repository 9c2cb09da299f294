// Package xmcda содержит стандартные трансформеры xws для документов XMCDA.
//
// Документ XMCDA — XML с корнем <xmcda:XMCDA>, дочерние элементы
// которого описывают альтернативы, критерии, таблицу оценок и т.д.:
//
//	<xmcda:XMCDA xmlns:xmcda="http://www.decision-deck.org/2012/XMCDA-2.2.0">
//	    <alternatives>
//	        <alternative id="a1"/>
//	    </alternatives>
//	</xmcda:XMCDA>
//
// # Компоненты
//
//   - InputTransformer — читает файл входного поля и декодирует нужный элемент
//   - OutputTransformer — строит Document из значения выходного поля
//   - Writer — пишет Document как XML с заголовком и отступами
//
// Поле типа Alternatives получает первый элемент <alternatives> из файла,
// поле []Alternatives — все такие элементы. Поля []byte и string
// получают содержимое файла без разбора.
//
// # Файлы пакета
//
//   - model.go    — элементы XMCDA
//   - document.go — Document, RawDocument, ParseDocument
//   - input.go    — InputTransformer
//   - output.go   — OutputTransformer
//   - writer.go   — Writer
package xmcda
