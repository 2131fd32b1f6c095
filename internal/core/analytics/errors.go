package analytics

import "errors"

var (
	ErrInvalidUserID = errors.New("analytics: invalid user id")
	// ErrEmptyCohort はクラスタリング対象のワーカーが 1 人も解決できなかった場合の致命エラーです。
	ErrEmptyCohort = errors.New("analytics: no workers found for clustering analysis")
	// ErrInsufficientData は実働データを持つメンバーが 2 人未満の場合の致命エラーです。
	ErrInsufficientData = errors.New("analytics: not enough members with activity data for clustering")
	// ErrModelNotTrained は学習前の予測呼び出しに対するエラーです。
	ErrModelNotTrained = errors.New("analytics: no trained model available, run clustering analysis first")
	// ErrAllMembersFailed はコホート全員の指標算出に失敗した場合のエラーです。
	ErrAllMembersFailed = errors.New("analytics: metrics computation failed for every cohort member")
)
