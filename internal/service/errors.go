package service

import (
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid             = errors.New("参数错误")
	ErrUserIDMissing            = errors.New("缺少用户ID")
	ErrActivityTypeInvalid      = errors.New("无法识别的行为类型")
	ErrPointsInvalid            = errors.New("积分不能为负数")
	ErrChallengeTypeInvalid     = errors.New("无效的挑战类型")
	ErrActionRequiredInvalid    = errors.New("无效的成就条件")
	ErrChallengeDateInvalid     = errors.New("挑战日期格式错误")
	ErrCursorInvalid            = errors.New("翻页游标无效")
	ErrLeaderboardMetricInvalid = errors.New("不支持的排行榜类型")
	ErrAchievementNotFound      = errors.New("成就不存在")
	ErrChallengeNotFound        = errors.New("挑战不存在")
	ErrGamificationBusy         = errors.New("操作过于频繁，请稍后重试")
	UnauthorizedError           = errors.New("权限不足")
	UnExpectedError             = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:             BadRequest,
	ErrUserIDMissing:            Unauthorized,
	ErrActivityTypeInvalid:      BadRequest,
	ErrPointsInvalid:            BadRequest,
	ErrChallengeTypeInvalid:     BadRequest,
	ErrActionRequiredInvalid:    BadRequest,
	ErrChallengeDateInvalid:     BadRequest,
	ErrCursorInvalid:            BadRequest,
	ErrLeaderboardMetricInvalid: BadRequest,
	ErrAchievementNotFound:      NotFound,
	ErrChallengeNotFound:        NotFound,
	ErrGamificationBusy:         BadRequest,
	UnauthorizedError:           Unauthorized,
	UnExpectedError:             InternalServerError,
}

// validationErrors 在任何持久化之前被拒绝的输入
var validationErrors = []error{
	ErrParamInvalid,
	ErrUserIDMissing,
	ErrActivityTypeInvalid,
	ErrPointsInvalid,
}

// IsValidationError 判断是否为入参校验失败
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// PersistenceError 行为链路中某一步读写存储失败，Step 标识失败的环节
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s 失败: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(step string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Step: step, Err: err}
}
