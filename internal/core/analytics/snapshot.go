package analytics

import "time"

// ModelSnapshot は 1 回の学習で得られたモデル状態の不変な値オブジェクトです。
// 標準化変換・並べ替え後の重心・ラベル対応表・メタデータをまとめて保持し、
// フィールド単位の書き換えは行わずスナップショットごと差し替えます。
type ModelSnapshot struct {
	Transform Transform
	// Centroids は並べ替え後の序数順に並んだ標準化空間の重心です。
	Centroids [][]float64
	// LabelMap は学習時のクラスタ番号から性能順の序数への対応表です。
	LabelMap         []int
	LastTrained      time.Time
	TrainingDataSize int
}

// K はクラスタ数を返します。
func (s *ModelSnapshot) K() int {
	return len(s.Centroids)
}
