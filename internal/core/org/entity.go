package org

// RiskLevel は職位のリスク区分です。
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskAndMeasure はリスクとその対策の組です。
type RiskAndMeasure struct {
	ID      string
	Risk    string
	Measure string
}

// Position は部門ツリー上の職位ノードです。Name は同じ親の下の兄弟間で
// 大文字小文字を区別せず一意です。検診の周期は年単位で 0 以上です。
type Position struct {
	ID                      string
	Name                    string
	Description             string
	MedicalExamYears        float64
	FireProtectionExamYears float64
	RiskLevel               RiskLevel
	SpecialConditions       string
	RisksAndMeasures        []RiskAndMeasure
	SubPositions            []*Position
}

// Department は職位のフォレストを持つ部門です。Name は部門間で一意です。
type Department struct {
	Name      string
	Positions []*Position
}

// FlatPosition は深さ情報付きで平坦化された職位です。親選択の
// ドロップダウンなどに使います。
type FlatPosition struct {
	ID    string
	Name  string
	Level int
}

// ClonePosition は職位ノードを子孫ごと複製します。
func ClonePosition(p *Position) *Position {
	if p == nil {
		return nil
	}
	clone := *p
	if p.RisksAndMeasures != nil {
		clone.RisksAndMeasures = make([]RiskAndMeasure, len(p.RisksAndMeasures))
		copy(clone.RisksAndMeasures, p.RisksAndMeasures)
	}
	if p.SubPositions != nil {
		clone.SubPositions = make([]*Position, len(p.SubPositions))
		for i, sub := range p.SubPositions {
			clone.SubPositions[i] = ClonePosition(sub)
		}
	}
	return &clone
}

// CloneDepartment は部門をツリーごと複製します。
func CloneDepartment(d *Department) *Department {
	if d == nil {
		return nil
	}
	clone := &Department{Name: d.Name}
	if d.Positions != nil {
		clone.Positions = make([]*Position, len(d.Positions))
		for i, p := range d.Positions {
			clone.Positions[i] = ClonePosition(p)
		}
	}
	return clone
}
