package xmcda

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
)

// Namespace — пространство имён корня документа.
const Namespace = "http://www.decision-deck.org/2012/XMCDA-2.2.0"

// Value — числовое значение XMCDA: <real> или <integer>.
type Value struct {
	Real    *float64 `xml:"real,omitempty"`
	Integer *int     `xml:"integer,omitempty"`
	Label   string   `xml:"label,omitempty"`
}

// Real создаёт вещественное значение.
func Real(f float64) Value {
	return Value{Real: &f}
}

// Integer создаёт целое значение.
func Integer(n int) Value {
	return Value{Integer: &n}
}

// Float возвращает значение как float64. false — значение не задано.
func (v Value) Float() (float64, bool) {
	switch {
	case v.Real != nil:
		return *v.Real, true
	case v.Integer != nil:
		return float64(*v.Integer), true
	}
	return 0, false
}

// String возвращает строковое представление Value.
func (v Value) String() string {
	switch {
	case v.Real != nil:
		return strconv.FormatFloat(*v.Real, 'g', -1, 64)
	case v.Integer != nil:
		return strconv.Itoa(*v.Integer)
	case v.Label != "":
		return v.Label
	}
	return "<empty>"
}

func (v Value) validate() error {
	if v.Real != nil && v.Integer != nil {
		return errors.New("value has both real and integer")
	}
	if v.Real == nil && v.Integer == nil && v.Label == "" {
		return errors.New("empty value")
	}
	return nil
}

// element — дочерний элемент корня документа.
type element interface {
	elementName() string
	validate() error
}

// Alternative — альтернатива.
type Alternative struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name,attr,omitempty"`
	Active *bool  `xml:"active,omitempty"`
}

// IsActive возвращает false, только если альтернатива явно выключена.
func (a Alternative) IsActive() bool {
	return a.Active == nil || *a.Active
}

// Alternatives — элемент <alternatives>.
type Alternatives struct {
	XMLName      xml.Name      `xml:"alternatives"`
	Alternatives []Alternative `xml:"alternative"`
}

// IDs возвращает идентификаторы активных альтернатив в порядке документа.
func (a *Alternatives) IDs() []string {
	ids := make([]string, 0, len(a.Alternatives))
	for _, alt := range a.Alternatives {
		if alt.IsActive() {
			ids = append(ids, alt.ID)
		}
	}
	return ids
}

func (a *Alternatives) elementName() string { return "alternatives" }

func (a *Alternatives) validate() error {
	ids := make([]string, len(a.Alternatives))
	for i, alt := range a.Alternatives {
		ids[i] = alt.ID
	}
	return uniqueIDs("alternative", ids)
}

// Criterion — критерий.
type Criterion struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name,attr,omitempty"`
	Active *bool  `xml:"active,omitempty"`
}

// IsActive возвращает false, только если критерий явно выключен.
func (c Criterion) IsActive() bool {
	return c.Active == nil || *c.Active
}

// Criteria — элемент <criteria>.
type Criteria struct {
	XMLName  xml.Name    `xml:"criteria"`
	Criteria []Criterion `xml:"criterion"`
}

// IDs возвращает идентификаторы активных критериев в порядке документа.
func (c *Criteria) IDs() []string {
	ids := make([]string, 0, len(c.Criteria))
	for _, crit := range c.Criteria {
		if crit.IsActive() {
			ids = append(ids, crit.ID)
		}
	}
	return ids
}

func (c *Criteria) elementName() string { return "criteria" }

func (c *Criteria) validate() error {
	ids := make([]string, len(c.Criteria))
	for i, crit := range c.Criteria {
		ids[i] = crit.ID
	}
	return uniqueIDs("criterion", ids)
}

// CriterionValue — значение, связанное с критерием.
type CriterionValue struct {
	CriterionID string `xml:"criterionID"`
	Value       Value  `xml:"value"`
}

// CriteriaValues — элемент <criteriaValues> (например, веса).
type CriteriaValues struct {
	XMLName     xml.Name         `xml:"criteriaValues"`
	MCDAConcept string           `xml:"mcdaConcept,attr,omitempty"`
	Values      []CriterionValue `xml:"criterionValue"`
}

// Map возвращает значения по идентификатору критерия.
func (c *CriteriaValues) Map() map[string]float64 {
	out := make(map[string]float64, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Value.Float(); ok {
			out[v.CriterionID] = f
		}
	}
	return out
}

func (c *CriteriaValues) elementName() string { return "criteriaValues" }

func (c *CriteriaValues) validate() error {
	for i, v := range c.Values {
		if v.CriterionID == "" {
			return fmt.Errorf("criterionValue %d: empty criterionID", i)
		}
		if err := v.Value.validate(); err != nil {
			return fmt.Errorf("criterionValue %s: %v", v.CriterionID, err)
		}
	}
	return nil
}

// Performance — оценка альтернативы по критерию.
type Performance struct {
	CriterionID string `xml:"criterionID"`
	Value       Value  `xml:"value"`
}

// AlternativePerformances — оценки одной альтернативы.
type AlternativePerformances struct {
	AlternativeID string        `xml:"alternativeID"`
	Performances  []Performance `xml:"performance"`
}

// PerformanceTable — элемент <performanceTable>.
type PerformanceTable struct {
	XMLName xml.Name                  `xml:"performanceTable"`
	Rows    []AlternativePerformances `xml:"alternativePerformances"`
}

// Get возвращает оценку альтернативы alt по критерию crit.
func (p *PerformanceTable) Get(alt, crit string) (float64, bool) {
	for _, row := range p.Rows {
		if row.AlternativeID != alt {
			continue
		}
		for _, perf := range row.Performances {
			if perf.CriterionID == crit {
				return perf.Value.Float()
			}
		}
	}
	return 0, false
}

func (p *PerformanceTable) elementName() string { return "performanceTable" }

func (p *PerformanceTable) validate() error {
	for i, row := range p.Rows {
		if row.AlternativeID == "" {
			return fmt.Errorf("alternativePerformances %d: empty alternativeID", i)
		}
		for _, perf := range row.Performances {
			if perf.CriterionID == "" {
				return fmt.Errorf("alternative %s: empty criterionID", row.AlternativeID)
			}
			if err := perf.Value.validate(); err != nil {
				return fmt.Errorf("alternative %s, criterion %s: %v", row.AlternativeID, perf.CriterionID, err)
			}
		}
	}
	return nil
}

// AlternativeValue — значение, связанное с альтернативой.
type AlternativeValue struct {
	AlternativeID string `xml:"alternativeID"`
	Value         Value  `xml:"value"`
}

// AlternativesValues — элемент <alternativesValues> (оценки, ранги).
type AlternativesValues struct {
	XMLName     xml.Name           `xml:"alternativesValues"`
	MCDAConcept string             `xml:"mcdaConcept,attr,omitempty"`
	Values      []AlternativeValue `xml:"alternativeValue"`
}

func (a *AlternativesValues) elementName() string { return "alternativesValues" }

func (a *AlternativesValues) validate() error {
	for i, v := range a.Values {
		if v.AlternativeID == "" {
			return fmt.Errorf("alternativeValue %d: empty alternativeID", i)
		}
		if err := v.Value.validate(); err != nil {
			return fmt.Errorf("alternativeValue %s: %v", v.AlternativeID, err)
		}
	}
	return nil
}

// Message — текстовое сообщение метода.
type Message struct {
	Name string `xml:"name,attr,omitempty"`
	Text string `xml:"text"`
}

// MethodMessages — элемент <methodMessages>: ошибки и журнал выполнения.
type MethodMessages struct {
	XMLName  xml.Name  `xml:"methodMessages"`
	Errors   []Message `xml:"errorMessage"`
	Logs     []Message `xml:"logMessage"`
	Messages []Message `xml:"message"`
}

// AddError добавляет сообщение об ошибке.
func (m *MethodMessages) AddError(text string) {
	m.Errors = append(m.Errors, Message{Text: text})
}

// AddLog добавляет сообщение журнала.
func (m *MethodMessages) AddLog(text string) {
	m.Logs = append(m.Logs, Message{Text: text})
}

// HasErrors сообщает, есть ли сообщения об ошибках.
func (m *MethodMessages) HasErrors() bool {
	return len(m.Errors) > 0
}

func (m *MethodMessages) elementName() string { return "methodMessages" }

func (m *MethodMessages) validate() error { return nil }

func uniqueIDs(kind string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%s %d: empty id", kind, i)
		}
		if seen[id] {
			return fmt.Errorf("duplicate %s id %q", kind, id)
		}
		seen[id] = true
	}
	return nil
}
