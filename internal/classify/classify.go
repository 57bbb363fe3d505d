// Package classify groups and counts registry records by academic year,
// department, program and course. All comparisons are case-insensitive
// and whitespace-trimmed: the records come from manual form entry with
// inconsistent casing, and strict equality would silently undercount.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/univ-registry-api/internal/models"
)

// BaselineYears is the fixed folder list every installation starts with.
// Custom years are layered on top by the year-folder service.
var BaselineYears = []string{
	"SY 2020-2021",
	"SY 2021-2022",
	"SY 2022-2023",
	"SY 2023-2024",
	"SY 2024-2025",
}

var (
	yearRangePattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
	bareYearPattern  = regexp.MustCompile(`^\d{4}$`)
)

// NormalizeYearLabel converts heterogeneous academic-year labels to the
// canonical form "SY <start>-<end>". Bare years expand to the following
// year ("2024" -> "SY 2024-2025"). Unrecognized labels normalize to the
// empty string; callers exclude such records from year-grouped views
// rather than erroring. The function is idempotent.
func NormalizeYearLabel(raw string) string {
	rest := strings.TrimSpace(raw)
	if len(rest) >= 2 && strings.EqualFold(rest[:2], "SY") {
		rest = strings.TrimSpace(rest[2:])
	}
	if yearRangePattern.MatchString(rest) {
		return "SY " + rest
	}
	if bareYearPattern.MatchString(rest) {
		start, err := strconv.Atoi(rest)
		// 9999 has no four-digit successor; its expansion would not
		// re-normalize, so reject it outright.
		if err != nil || start >= 9999 {
			return ""
		}
		return fmt.Sprintf("SY %04d-%04d", start, start+1)
	}
	return ""
}

// YearSet builds a lookup of known year labels from the baseline list
// plus any extra label slices. Keys are stored lowercase.
func YearSet(extra ...[]string) map[string]struct{} {
	set := make(map[string]struct{}, len(BaselineYears))
	for _, y := range BaselineYears {
		set[strings.ToLower(y)] = struct{}{}
	}
	for _, labels := range extra {
		for _, y := range labels {
			set[strings.ToLower(strings.TrimSpace(y))] = struct{}{}
		}
	}
	return set
}

// GroupByYearAndKey buckets records as {normalized year} -> {group key} ->
// records. Records whose label does not normalize, or whose normalized
// year is not in the known set, are skipped. Insertion order within each
// bucket follows the input slice.
func GroupByYearAndKey[T any](records []T, known map[string]struct{}, labelFn, keyFn func(T) string) map[string]map[string][]T {
	grouped := make(map[string]map[string][]T)
	for _, rec := range records {
		year := NormalizeYearLabel(labelFn(rec))
		if year == "" {
			continue
		}
		if _, ok := known[strings.ToLower(year)]; !ok {
			continue
		}
		key := strings.TrimSpace(keyFn(rec))
		bucket, ok := grouped[year]
		if !ok {
			bucket = make(map[string][]T)
			grouped[year] = bucket
		}
		bucket[key] = append(bucket[key], rec)
	}
	return grouped
}

// EffectiveGroupKey returns the field used to bucket a faculty record:
// program when present and non-empty, else department.
func EffectiveGroupKey(f models.Faculty) string {
	if p := strings.TrimSpace(f.Program); p != "" {
		return p
	}
	return strings.TrimSpace(f.Department)
}

// ResolvedProgram applies the dean assignment chain: a record whose
// program is "Deans" reports under its dean_department instead.
func ResolvedProgram(f models.Faculty) string {
	if equalFold(f.Program, models.FacultyRoleDeans) {
		return strings.TrimSpace(f.DeanDepartment)
	}
	return strings.TrimSpace(f.Program)
}

// ResolvedAssignedProgram returns the academic program a faculty member
// effectively serves: dean_department for deans, assigned_program for
// everyone else.
func ResolvedAssignedProgram(f models.Faculty) string {
	if equalFold(f.Program, models.FacultyRoleDeans) {
		return strings.TrimSpace(f.DeanDepartment)
	}
	return strings.TrimSpace(f.AssignedProgram)
}

// CountFacultyByPositionAndProgram counts faculty in the given normalized
// year holding the given position and assigned to the given program.
func CountFacultyByPositionAndProgram(faculty []models.Faculty, year, position, program string) int {
	count := 0
	for _, f := range faculty {
		if !equalFold(NormalizeYearLabel(f.AcademicYear), year) {
			continue
		}
		if !equalFold(f.Program, position) {
			continue
		}
		if !equalFold(f.AssignedProgram, program) {
			continue
		}
		count++
	}
	return count
}

// CountDeansByProgram counts leadership faculty whose resolved program
// (dean assignment chain applied) matches programName in the given year.
func CountDeansByProgram(faculty []models.Faculty, year, programName string) int {
	count := 0
	for _, f := range faculty {
		if !equalFold(f.Department, models.FacultyDeptLeadership) {
			continue
		}
		if !equalFold(NormalizeYearLabel(f.AcademicYear), year) {
			continue
		}
		if !equalFold(ResolvedProgram(f), programName) {
			continue
		}
		count++
	}
	return count
}

// CountStudentsForCourse counts students whose program matches the
// course name and, when the course has an owning program set, whose
// department matches it as well.
func CountStudentsForCourse(students []models.Student, course models.Course) int {
	count := 0
	for _, s := range students {
		if !equalFold(s.Program, course.Name) {
			continue
		}
		if strings.TrimSpace(course.Program) != "" && !equalFold(s.Department, course.Program) {
			continue
		}
		count++
	}
	return count
}

// CountFacultyForProgram counts active faculty in teaching roles (the
// teaching bucket, plus deans through the assignment chain) whose
// resolved assigned program matches programName.
func CountFacultyForProgram(faculty []models.Faculty, programName string) int {
	count := 0
	for _, f := range faculty {
		if !equalFold(f.Status, "Active") {
			continue
		}
		teaching := equalFold(f.Department, models.FacultyDeptTeaching)
		dean := equalFold(f.Department, models.FacultyDeptLeadership) && equalFold(f.Program, models.FacultyRoleDeans)
		if !teaching && !dean {
			continue
		}
		if !equalFold(ResolvedAssignedProgram(f), programName) {
			continue
		}
		count++
	}
	return count
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
