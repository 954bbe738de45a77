package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/intakebot/internal/domain"
)

const displayDateLayout = "02.01.2006"

const (
	textAskLink          = "Отправьте ссылку на материал (начинается с http:// или https://)."
	textInvalidLink      = "Пожалуйста, отправьте корректную ссылку, начинающуюся с http:// или https:// и без пробелов."
	textAskDecision      = "Спасибо за ссылку. Теперь отправьте номер решения (формат: входит в Федеральный список экстремистских материалов под номером ####)."
	textInvalidDecision  = "Пожалуйста, введите корректный номер решения."
	textAskQualifier     = "Выберите род: размещен, размещена или размещено."
	textInvalidQualifier = "Пожалуйста, выберите корректный вариант: размещен, размещена или размещено."
	textAskIntent        = "Пожалуйста, выберите: «Подтвердить», «Начать заново» или «Изменить род»."
	textPublished        = "Данные обновлены и отправлены."
	textPublishFailed    = "Произошла ошибка при отправке данных. Пожалуйста, попробуйте позже."
	textRestarted        = "Процесс начинается заново. Пожалуйста, отправьте ссылку еще раз."
	textCanceled         = "Заполнение отменено. Чтобы начать снова, отправьте ссылку."
	textRetryLater       = "Не удалось сохранить данные. Пожалуйста, попробуйте позже."
	textMissingDecision  = "Не удалось найти номер решения. Отправьте номер решения еще раз."
	textNotAllowed       = "Эта команда доступна только менеджеру."
	textReminder         = "Привет! Не забудь отправить сайт на проверку сегодня!"
	textReminderStarted  = "Отправляю тестовое напоминание..."
)

func textLinkReused(verdict domain.ReuseVerdict, loc *time.Location) string {
	return fmt.Sprintf(
		"Эта ссылка уже отправлялась %s. Повторно её можно отправить не раньше %s.",
		verdict.LastSentAt.In(loc).Format(displayDateLayout),
		verdict.NextEligibleAt.In(loc).Format(displayDateLayout),
	)
}

func textUnknownDecision(id domain.DecisionID) string {
	return fmt.Sprintf("Решение с номером %s не найдено в списке. Проверьте номер и отправьте его еще раз.", id)
}

func textConfirmNotice(notice string) string {
	return fmt.Sprintf("Вот итоговое сообщение:\n\n%s\n\nВыберите: «%s», «%s» или «%s».", notice, ButtonConfirm, ButtonRestart, ButtonChangeQualifier)
}

func textUserQuota(sent int, quota domain.Quota) string {
	if sent >= quota.UserWeekly {
		return fmt.Sprintf("Вы достигли лимита в %d ссылок на этой неделе. Молодец!", quota.UserWeekly)
	}
	return fmt.Sprintf("Вы отправили %d ссылок. Осталось %d.", sent, quota.UserRemaining(sent))
}

func textTotalQuota(total int, quota domain.Quota) string {
	if total >= quota.TotalWeekly {
		return fmt.Sprintf("Всего отправлено %d ссылок на этой неделе. Все молодцы!", quota.TotalWeekly)
	}
	return fmt.Sprintf("Всего отправлено %d ссылок. Осталось %d.", total, quota.TotalRemaining(total))
}

func textReminderReport(report ReminderReport) string {
	return fmt.Sprintf("Напоминание отправлено: %d, удалено недоступных: %d, ошибок: %d.", report.Sent, len(report.Removed), report.Failed)
}

func textWeeklyStats(stats WeeklyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Неделя %s: отправлено %d из %d.", stats.Tally.Week, stats.Tally.Total(), stats.Quota.TotalWeekly)
	for _, id := range stats.Tally.Users() {
		fmt.Fprintf(&b, "\n%s: %d из %d", id, stats.Tally.PerUser[id], stats.Quota.UserWeekly)
	}
	return b.String()
}
