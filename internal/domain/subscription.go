package domain

import "time"

// Duration длительность подписки, как её выбирает покупатель
type Duration string

const (
	Duration7Days  Duration = "7days"
	Duration1Month Duration = "1month"
)

// Frequency выводится из Duration и отдельно не задаётся
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (d Duration) Valid() bool {
	return d == Duration7Days || d == Duration1Month
}

func (d Duration) Frequency() Frequency {
	if d == Duration1Month {
		return FrequencyMonthly
	}
	return FrequencyWeekly
}

// Next returns the delivery date one period after from. A month is a calendar month
// clamped to the target month's length, so Jan 31 becomes Feb 28 or 29.
func (d Duration) Next(from time.Time) time.Time {
	if d == Duration1Month {
		return addMonthClamped(from)
	}
	return from.AddDate(0, 0, 7)
}

// NextAfter returns the first delivery date after current on the schedule that started at anchor.
// Monthly dates are counted from anchor, so a clamped month does not shift later ones.
func (d Duration) NextAfter(anchor, current time.Time) time.Time {
	if d != Duration1Month || anchor.IsZero() || anchor.After(current) {
		return d.Next(current)
	}
	ay, am, _ := anchor.Date()
	cy, cm, _ := current.Date()
	n := (cy-ay)*12 + int(cm-am)
	if n < 1 {
		n = 1
	}
	for {
		if t := addMonthsClamped(anchor, n); t.After(current) {
			return t
		}
		n++
	}
}

// NewSubscriptionDetails строит блок подписки для заказа, созданного в момент at
func NewSubscriptionDetails(d Duration, at time.Time) *SubscriptionDetails {
	return &SubscriptionDetails{
		Frequency:        d.Frequency(),
		Duration:         d,
		NextDeliveryDate: d.Next(at),
	}
}

func addMonthClamped(t time.Time) time.Time {
	return addMonthsClamped(t, 1)
}

func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := m + time.Month(n)
	// day 0 of the following month is the last day of the target month
	last := time.Date(y, target+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > last {
		d = last
	}
	return time.Date(y, target, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
