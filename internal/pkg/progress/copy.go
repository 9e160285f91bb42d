package progress

import (
	"context"

	"github.com/Kargones/apk-files/internal/fileio"
)

// CopyPoller связывает Progress с опросом fileio.Manager.Copy.
// Доля fraction переводится в байты от total. Отмена ctx отменяет копирование
// на ближайшем опросе. Finish вызывается при достижении 1.0 либо при отмене.
func CopyPoller(ctx context.Context, p Progress, total int64, message string) fileio.ProgressFunc {
	started, finished := false, false
	p.SetTotal(total)

	return func(fraction float64) bool {
		if finished {
			return ctx.Err() == nil
		}
		if !started {
			started = true
			p.Start(message)
		}
		if ctx.Err() != nil {
			finished = true
			p.Finish()
			return false
		}

		p.Update(int64(fraction*float64(total)), message)
		if fraction >= 1 {
			finished = true
			p.Finish()
		}
		return true
	}
}
