package gateway

import (
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// RemoteError はリモートモデル呼び出しの失敗を表します。
type RemoteError struct {
	Code    int    `json:"code,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *RemoteError) Error() string {
	switch {
	case e.Code != 0 && e.Status != "":
		return fmt.Sprintf("remote error %d %s: %s", e.Code, e.Status, e.Message)
	case e.Code != 0:
		return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
	case e.Status != "":
		return fmt.Sprintf("remote error %s: %s", e.Status, e.Message)
	}
	return "remote error: " + e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// toRemoteError は genai の APIError を RemoteError に変換します。
// 既に RemoteError を含む場合や変換できない場合は元のエラーをそのまま返します。
func toRemoteError(err error) error {
	if err == nil {
		return nil
	}

	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{
			Code:    apiErr.Code,
			Status:  apiErr.Status,
			Message: apiErr.Message,
			Err:     err,
		}
	}
	return err
}
