package pipeline

import (
	"github.com/shouni/go-carousel-kit/pkg/domain"
)

// UpdateFunc はスライドごとの ImageResult の更新を受け取るコールバックです。
// パイプラインは正規のコレクションを直接変更せず、このコールバックを通じてのみ状態を伝えます。
type UpdateFunc func(result domain.ImageResult)

// TransitionFunc はサブジョブの再試行状態の遷移を、対象のスライド ID と共に受け取るコールバックです。
type TransitionFunc func(slideID int, state string, attempt int)
