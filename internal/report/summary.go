// Package report summarizes stored expenses: totals, monthly income and
// spending, and spending per tag.
package report

import (
	"sort"
	"time"

	"github.com/nikcich/ExpenseTrackerV2/internal/currencyutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"

	"github.com/shopspring/decimal"
)

// UntaggedLabel collects spending that carries no tag.
const UntaggedLabel = "Untagged"

// Filter restricts a summary to an inclusive date range. Zero bounds are
// open.
type Filter struct {
	From time.Time
	To   time.Time
}

// MonthSummary is the activity of one calendar month.
type MonthSummary struct {
	Month    string `json:"month" yaml:"month"`
	Expenses string `json:"expenses" yaml:"expenses"`
	Income   string `json:"income" yaml:"income"`
	Count    int    `json:"count" yaml:"count"`
}

// TagSummary is the spending recorded under one tag.
type TagSummary struct {
	Tag      string `json:"tag" yaml:"tag"`
	Expenses string `json:"expenses" yaml:"expenses"`
	Count    int    `json:"count" yaml:"count"`
}

// Summary is the rendered spending report. Amounts are fixed to two
// decimals; income is shown as a positive magnitude.
type Summary struct {
	From                   string         `json:"from,omitempty" yaml:"from,omitempty"`
	To                     string         `json:"to,omitempty" yaml:"to,omitempty"`
	Count                  int            `json:"count" yaml:"count"`
	TotalExpenses          string         `json:"total_expenses" yaml:"total_expenses"`
	TotalIncome            string         `json:"total_income" yaml:"total_income"`
	Net                    string         `json:"net" yaml:"net"`
	AverageMonthlySpending string         `json:"average_monthly_spending" yaml:"average_monthly_spending"`
	Months                 []MonthSummary `json:"months" yaml:"months"`
	Tags                   []TagSummary   `json:"tags" yaml:"tags"`
}

type monthAcc struct {
	expenses, income decimal.Decimal
	count            int
}

type tagAcc struct {
	expenses decimal.Decimal
	count    int
}

// Build summarizes the expenses that fall inside f. Non-finite amounts
// are skipped. Months are in chronological order; tags by spending,
// largest first, ties by name. An expense with several tags counts
// toward each of them.
func Build(expenses []models.Expense, f Filter) Summary {
	var (
		totalExp = decimal.Zero
		totalInc = decimal.Zero
		count    int
		months   = map[string]*monthAcc{}
		tags     = map[string]*tagAcc{}
	)

	for _, e := range expenses {
		if !dateutils.InRange(e.Date, f.From, f.To) {
			continue
		}
		amount, err := currencyutils.ToDecimal(e.Amount)
		if err != nil {
			continue
		}
		count++

		key := dateutils.MonthKey(e.Date)
		m, ok := months[key]
		if !ok {
			m = &monthAcc{expenses: decimal.Zero, income: decimal.Zero}
			months[key] = m
		}
		m.count++

		if amount.IsNegative() {
			inc := amount.Neg()
			totalInc = totalInc.Add(inc)
			m.income = m.income.Add(inc)
			continue
		}

		totalExp = totalExp.Add(amount)
		m.expenses = m.expenses.Add(amount)

		labels := e.Tags
		if len(labels) == 0 {
			labels = []string{UntaggedLabel}
		}
		for _, tag := range labels {
			t, ok := tags[tag]
			if !ok {
				t = &tagAcc{expenses: decimal.Zero}
				tags[tag] = t
			}
			t.expenses = t.expenses.Add(amount)
			t.count++
		}
	}

	s := Summary{
		Count:                  count,
		TotalExpenses:          currencyutils.FormatAmount(totalExp),
		TotalIncome:            currencyutils.FormatAmount(totalInc),
		Net:                    currencyutils.FormatAmount(currencyutils.Sum(totalInc, totalExp.Neg())),
		AverageMonthlySpending: currencyutils.FormatAmount(decimal.Zero),
		Months:                 []MonthSummary{},
		Tags:                   []TagSummary{},
	}
	if !f.From.IsZero() {
		s.From = dateutils.ToISODate(f.From)
	}
	if !f.To.IsZero() {
		s.To = dateutils.ToISODate(f.To)
	}
	if len(months) > 0 {
		avg := totalExp.Div(decimal.NewFromInt(int64(len(months))))
		s.AverageMonthlySpending = currencyutils.FormatAmount(avg)
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := months[k]
		s.Months = append(s.Months, MonthSummary{
			Month:    k,
			Expenses: currencyutils.FormatAmount(m.expenses),
			Income:   currencyutils.FormatAmount(m.income),
			Count:    m.count,
		})
	}

	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := tags[names[i]], tags[names[j]]
		if c := a.expenses.Cmp(b.expenses); c != 0 {
			return c > 0
		}
		return names[i] < names[j]
	})
	for _, n := range names {
		s.Tags = append(s.Tags, TagSummary{
			Tag:      n,
			Expenses: currencyutils.FormatAmount(tags[n].expenses),
			Count:    tags[n].count,
		})
	}

	return s
}
