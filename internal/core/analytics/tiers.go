package analytics

import "fmt"

// Tier はパフォーマンス階層を表します。序数 0 が常に最下位です。
type Tier int

const (
	TierNeedsImprovement Tier = iota
	TierAverage
	TierGood
	TierHigh
)

var tierLabels = []string{
	"Needs Improvement",
	"Average Performer",
	"Good Performer",
	"High Performer",
}

// Label は階層の表示名を返します。
func (t Tier) Label() string {
	if t >= 0 && int(t) < len(tierLabels) {
		return tierLabels[t]
	}
	return fmt.Sprintf("Cluster %d", int(t))
}

// LabelForOrdinal は並べ替え後のクラスタ序数を表示名へ対応付けます。
func LabelForOrdinal(ordinal int) string {
	return Tier(ordinal).Label()
}

// TierLabels は既定の階層名を下位から順に返します。
func TierLabels() []string {
	labels := make([]string, len(tierLabels))
	copy(labels, tierLabels)
	return labels
}
