// Package analytics computes journal statistics as pure functions over a
// user's entry history. Nothing here touches storage or the clock; callers
// pass the entries and the reference time, which keeps every aggregate
// deterministic and trivially testable.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/phrazzld/moodlog-api/internal/domain"
)

// LabelCount is one bucket of the emotion distribution: how many entries
// have the given top label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Emoji string `json:"emoji"`
}

// TrendPoint is one day of the mood trend. HasData distinguishes a real
// zero average from a day with no entries; AverageScore is 0 in both cases.
type TrendPoint struct {
	Date         string  `json:"date"`
	AverageScore float64 `json:"average_score"`
	HasData      bool    `json:"has_data"`
}

// WeekdayAverage is one weekday bucket of the weekly mood pattern.
type WeekdayAverage struct {
	Day          string  `json:"day"`
	AverageScore float64 `json:"average_score"`
}

// PairCount tallies how often two emotion labels co-occur within a single
// entry's distribution. Pair is always "a & b" with a < b alphabetically.
type PairCount struct {
	Pair  string `json:"pair"`
	Count int    `json:"count"`
}

// Summary holds the headline numbers for a user's journal.
type Summary struct {
	TotalEntries   int     `json:"total_entries"`
	MonthlyEntries int     `json:"monthly_entries"`
	TopEmotion     string  `json:"top_emotion"`
	AvgScore       float64 `json:"avg_score"`
}

// Report bundles every aggregate the stats endpoint serves.
type Report struct {
	Summary
	EmotionDistribution []LabelCount     `json:"emotion_distribution"`
	MoodTrend           []TrendPoint     `json:"mood_trend"`
	WeeklyMoodPattern   []WeekdayAverage `json:"weekly_mood_pattern"`
	EmotionCorrelation  []PairCount      `json:"emotion_correlation"`
}

// TrendWindowDays is the default mood-trend window.
const TrendWindowDays = 30

// weekdayOrder fixes the weekly pattern's bucket order. time.Weekday starts
// the week on Sunday; journals read better Monday first.
var weekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// BuildReport computes the full stats report over a user's entire history.
func BuildReport(entries []*domain.Entry, now time.Time) Report {
	return Report{
		Summary:             Summarize(entries, now),
		EmotionDistribution: Distribution(entries),
		MoodTrend:           MoodTrend(entries, now, TrendWindowDays),
		WeeklyMoodPattern:   WeeklyPattern(entries),
		EmotionCorrelation:  Correlation(entries),
	}
}

// Distribution counts entries per top emotion label. Buckets are ordered by
// count descending, then label ascending, so equal counts render stably.
func Distribution(entries []*domain.Entry) []LabelCount {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.EmotionLabel]++
	}

	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{
			Label: label,
			Count: count,
			Emoji: domain.EmotionEmoji(label),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MoodTrend returns exactly windowDays+1 points covering the closed range
// [today-windowDays, today] in calendar days (UTC). Each point carries the
// average top score of that day's entries; days with no entries report 0
// with HasData false.
func MoodTrend(entries []*domain.Entry, today time.Time, windowDays int) []TrendPoint {
	type bucket struct {
		total float64
		count int
	}

	byDay := make(map[string]*bucket)
	for _, e := range entries {
		key := e.CreatedAt.UTC().Format("2006-01-02")
		b := byDay[key]
		if b == nil {
			b = &bucket{}
			byDay[key] = b
		}
		b.total += e.EmotionScore
		b.count++
	}

	start := today.UTC().AddDate(0, 0, -windowDays)
	points := make([]TrendPoint, 0, windowDays+1)
	for i := 0; i <= windowDays; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		point := TrendPoint{Date: day}
		if b, ok := byDay[day]; ok && b.count > 0 {
			point.AverageScore = round2(b.total / float64(b.count))
			point.HasData = true
		}
		points = append(points, point)
	}
	return points
}

// WeeklyPattern averages top scores per weekday over the full history.
// All seven weekdays are always present, Monday through Sunday, with 0 for
// weekdays that have no entries.
func WeeklyPattern(entries []*domain.Entry) []WeekdayAverage {
	type bucket struct {
		total float64
		count int
	}

	byDay := make(map[time.Weekday]*bucket, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		byDay[wd] = &bucket{}
	}
	for _, e := range entries {
		b := byDay[e.CreatedAt.UTC().Weekday()]
		b.total += e.EmotionScore
		b.count++
	}

	out := make([]WeekdayAverage, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		b := byDay[wd]
		avg := 0.0
		if b.count > 0 {
			avg = round2(b.total / float64(b.count))
		}
		out = append(out, WeekdayAverage{Day: wd.String(), AverageScore: avg})
	}
	return out
}

// Correlation counts unordered label pairs that co-occur inside a single
// entry's distribution. Co-occurrence is within one entry, never across
// entries. Pair keys are normalized alphabetically, so (joy, anger) and
// (anger, joy) tally the same bucket. Results are ordered by count
// descending, then pair ascending.
func Correlation(entries []*domain.Entry) []PairCount {
	pairs := make(map[string]int)
	for _, e := range entries {
		labels := make([]string, 0, len(e.Emotions))
		for _, emo := range e.Emotions {
			labels = append(labels, emo.Label)
		}
		sort.Strings(labels)
		for i := 0; i < len(labels); i++ {
			for j := i + 1; j < len(labels); j++ {
				pairs[labels[i]+" & "+labels[j]]++
			}
		}
	}

	out := make([]PairCount, 0, len(pairs))
	for pair, count := range pairs {
		out = append(out, PairCount{Pair: pair, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pair < out[j].Pair
	})
	return out
}

// Summarize computes the headline numbers: total entries, entries in the
// current calendar month (UTC), the most frequent top emotion with its
// emoji, and the mean top score. With no entries, TopEmotion is "None" and
// the numeric fields are 0. Frequency ties go to the lexicographically
// smallest label so the result never depends on map iteration order.
func Summarize(entries []*domain.Entry, now time.Time) Summary {
	now = now.UTC()

	summary := Summary{
		TotalEntries: len(entries),
		TopEmotion:   "None",
	}
	if len(entries) == 0 {
		return summary
	}

	counts := make(map[string]int)
	var totalScore float64
	for _, e := range entries {
		created := e.CreatedAt.UTC()
		if created.Month() == now.Month() && created.Year() == now.Year() {
			summary.MonthlyEntries++
		}
		counts[e.EmotionLabel]++
		totalScore += e.EmotionScore
	}

	topLabel, topCount := "", 0
	for label, count := range counts {
		if count > topCount || (count == topCount && label < topLabel) {
			topLabel, topCount = label, count
		}
	}
	summary.TopEmotion = topLabel + " " + domain.EmotionEmoji(topLabel)
	summary.AvgScore = round2(totalScore / float64(len(entries)))

	return summary
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
