package browser

import (
	"fmt"

	"go.uber.org/zap"
)

// navigateAction performs an explicit navigation within the session. The
// target is expected to be normalized and guard-checked by the caller.
func (s *Session) navigateAction(target string) Result {
	if err := s.navigate(target); err != nil {
		s.logger.Warn("navigation failed", zap.String("url", target), zap.Error(err))
		return Result{
			Success:     false,
			Message:     fmt.Sprintf("Не успях да отворя %s.", target),
			Observation: s.observe(),
		}
	}

	s.touch()
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Отворих %s.", target),
		Observation: s.observe(),
	}
}
