// Package trends buckets updates by calendar period and department.
package trends

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/pragati/internal/domain/model"
)

// AllDepartments disables the department filter.
const AllDepartments = "all"

const dateLayout = "2006-01-02"

// Directory resolves a member id to its member record.
type Directory map[int64]model.Member

// NewDirectory indexes members by id.
func NewDirectory(members []model.Member) Directory {
	d := make(Directory, len(members))
	for _, m := range members {
		d[m.ID] = m
	}
	return d
}

// department returns the department of an update's member. Updates whose
// member is unknown are not aggregated.
func (d Directory) department(u model.Update) (string, bool) {
	m, ok := d[u.MemberID]
	return m.Department, ok
}

func matches(filter, dept string) bool {
	return filter == "" || strings.EqualFold(filter, AllDepartments) || filter == dept
}

// ISOWeek renders the ISO week of an update as "YYYY-Www".
func ISOWeek(u model.Update) string {
	y, w := u.Timestamp.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

type dayKey struct{ date, dept string }

type dayBucket struct {
	sum     float64
	scored  int
	updates int
}

// ProductivityTrend averages present productivity scores per day and
// department, ordered by date then department.
func ProductivityTrend(updates []model.Update, dir Directory, department string) []model.TrendPoint {
	buckets := make(map[dayKey]*dayBucket)
	for _, u := range updates {
		dept, ok := dir.department(u)
		if !ok || !matches(department, dept) {
			continue
		}
		k := dayKey{date: u.Timestamp.Format(dateLayout), dept: dept}
		b := buckets[k]
		if b == nil {
			b = &dayBucket{}
			buckets[k] = b
		}
		b.updates++
		if u.ProductivityScore != nil {
			b.sum += *u.ProductivityScore
			b.scored++
		}
	}

	out := make([]model.TrendPoint, 0, len(buckets))
	for k, b := range buckets {
		p := model.TrendPoint{Date: k.date, Department: k.dept, Updates: b.updates}
		if b.scored > 0 {
			p.Productivity = b.sum / float64(b.scored)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Department < out[j].Department
	})
	return out
}

// DepartmentSummaries aggregates every update per department in first-seen
// order. Absent productivity scores count as zero in the mean.
func DepartmentSummaries(updates []model.Update, dir Directory) []model.DepartmentSummary {
	index := make(map[string]int)
	var sums []float64
	out := []model.DepartmentSummary{}
	for _, u := range updates {
		dept, ok := dir.department(u)
		if !ok {
			continue
		}
		i, seen := index[dept]
		if !seen {
			i = len(out)
			index[dept] = i
			out = append(out, model.DepartmentSummary{Name: dept})
			sums = append(sums, 0)
		}
		out[i].Updates++
		out[i].Blockers += len(u.Blockers)
		out[i].CompletedTasks += len(u.CompletedTasks)
		sums[i] += u.Score()
	}
	for i := range out {
		out[i].Productivity = sums[i] / float64(out[i].Updates)
	}
	return out
}

// Velocity sums completed and planned work per ISO week and department,
// newest week first.
func Velocity(updates []model.Update, dir Directory, department string) []model.VelocityPoint {
	type key struct{ week, dept string }
	index := make(map[key]int)
	out := []model.VelocityPoint{}
	for _, u := range updates {
		dept, ok := dir.department(u)
		if !ok || !matches(department, dept) {
			continue
		}
		k := key{week: ISOWeek(u), dept: dept}
		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, model.VelocityPoint{Sprint: k.week, Department: dept})
		}
		out[i].UpdateCount++
		out[i].Completed += len(u.CompletedTasks)
		out[i].Planned += len(u.NextWeekPlans)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sprint > out[j].Sprint })
	return out
}

// Overview summarizes a window of updates. With no updates it returns the
// empty summary.
func Overview(updates []model.Update, dir Directory) model.Overview {
	ov := model.Overview{
		ActiveProjects:  []string{},
		CompletedTasks:  []string{},
		CommonBlockers:  []string{},
		DepartmentStats: map[string]model.DepartmentStats{},
	}

	type deptAcc struct {
		sum     float64
		scored  int
		updates int
		members map[int64]struct{}
	}
	depts := make(map[string]*deptAcc)
	projects, tasks, blockers := newDistinct(), newDistinct(), newDistinct()
	var sum float64
	var scored int

	for _, u := range updates {
		dept, ok := dir.department(u)
		if !ok {
			continue
		}
		ov.TotalUpdates++
		if u.ProductivityScore != nil {
			sum += *u.ProductivityScore
			scored++
		}
		projects.add(u.ProjectProgress...)
		tasks.add(u.CompletedTasks...)
		blockers.add(u.Blockers...)

		acc := depts[dept]
		if acc == nil {
			acc = &deptAcc{members: make(map[int64]struct{})}
			depts[dept] = acc
		}
		acc.updates++
		acc.members[u.MemberID] = struct{}{}
		if u.ProductivityScore != nil {
			acc.sum += *u.ProductivityScore
			acc.scored++
		}
	}
	if ov.TotalUpdates == 0 {
		return ov
	}

	if scored > 0 {
		ov.TeamProductivity = sum / float64(scored)
	}
	ov.ActiveProjects = projects.items
	ov.CompletedTasks = tasks.items
	ov.CommonBlockers = blockers.items
	for name, acc := range depts {
		st := model.DepartmentStats{Updates: acc.updates, ActiveMembers: len(acc.members)}
		if acc.scored > 0 {
			st.Productivity = acc.sum / float64(acc.scored)
		}
		ov.DepartmentStats[name] = st
	}
	return ov
}

// Departments lists the distinct non-empty departments of members, sorted.
func Departments(members []model.Member) []string {
	seen := newDistinct()
	for _, m := range members {
		if m.Department != "" {
			seen.add(m.Department)
		}
	}
	sort.Strings(seen.items)
	return seen.items
}

// distinct keeps unique strings in first-seen order.
type distinct struct {
	seen  map[string]struct{}
	items []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{}), items: []string{}}
}

func (d *distinct) add(values ...string) {
	for _, v := range values {
		if _, ok := d.seen[v]; ok {
			continue
		}
		d.seen[v] = struct{}{}
		d.items = append(d.items, v)
	}
}
