package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolCreation はワーカー数が不正な場合のエラー
	ErrPoolCreation = errors.New("worker: pool size must be at least 1")
	// ErrPoolClosed はシャットダウン開始後の Submit で返る
	ErrPoolClosed = errors.New("worker: pool is closed")
	// ErrNilJob は nil ジョブの Submit で返る
	ErrNilJob = errors.New("worker: nil job")
)

// PoolCreationError は Build に 0 以下のサイズが渡されたことを表す
// ゴルーチンは一つも起動されていない
type PoolCreationError struct {
	Size int
}

func (e *PoolCreationError) Error() string {
	return fmt.Sprintf("worker: cannot create pool with %d workers", e.Size)
}

// Unwrap により errors.Is(err, ErrPoolCreation) が成立する
func (e *PoolCreationError) Unwrap() error {
	return ErrPoolCreation
}

// PanicError はジョブの panic 値を保持する
type PanicError struct {
	WorkerID int
	Value    any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d: job panicked: %v", e.WorkerID, e.Value)
}
