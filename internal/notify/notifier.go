// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"go_nocontact_keep/internal/model"
)

// MailNotifier は節目の到達をメールで知らせます
type MailNotifier struct {
	mailer Mailer
	to     string
}

func NewMailNotifier(mailer Mailer, to string) *MailNotifier {
	return &MailNotifier{mailer: mailer, to: to}
}

func (n *MailNotifier) StreakMilestone(ctx context.Context, days int, st model.ProgressionState) error {
	subject := fmt.Sprintf("連絡しない日が %d 日続きました", days)
	body := fmt.Sprintf("%d 日間、連絡を取らずに過ごせています。\n現在のレベル: %s\n最長記録: %d 日\n",
		days, st.CurrentLevel.Info().Title, maxInt(st.MaxStreak, days))
	if st.ExPartnerName != "" {
		body = fmt.Sprintf("%sさんと連絡を取らずに %d 日が経ちました。\n", st.ExPartnerName, days) + body
	}
	return n.mailer.Send(ctx, n.to, subject, body)
}

func (n *MailNotifier) LevelReached(ctx context.Context, level model.HealingLevel, st model.ProgressionState) error {
	subject := fmt.Sprintf("新しいレベルに到達しました: %s", level.Info().Title)
	body := fmt.Sprintf("レベル「%s」に進みました。\n保持しているボーナス日数: %.1f 日\n", level.Info().Title, st.BonusDays)
	if next, ok := level.Next(); ok {
		body += fmt.Sprintf("次のレベル「%s」まで最低 %d 日です。\n", next.Info().Title, level.MinDaysRequired())
	} else {
		body += "最終レベルです。おめでとうございます。\n"
	}
	return n.mailer.Send(ctx, n.to, subject, body)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
