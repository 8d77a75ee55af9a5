package mockapi

import "time"

// User is a demo account the mock backend can mint access tokens for.
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// DemoUsers are the accounts behind the demo-<role> refresh artifacts.
var DemoUsers = map[string]User{
	"admin":   {ID: 1, Username: "admin_demo", Role: "admin"},
	"teacher": {ID: 2, Username: "teacher_ali", Role: "teacher"},
	"student": {ID: 3, Username: "student_sara", Role: "student"},
	"head":    {ID: 11, Username: "head_demo", Role: "head"},
}

type tenant struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ProfilePic  *string `json:"profile_pic"`
	IsActive    bool    `json:"is_active"`
	Style       string  `json:"style"`
	Theme       string  `json:"theme"`
	PlanType    *string `json:"plan_type"`
	TierType    *string `json:"tier_type"`
	City        *string `json:"city"`
	TypeOfOrg   string  `json:"typeOfOrg"`
	Domain      string  `json:"domain"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
}

type member struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Phone     *string   `json:"phone"`
}

type invitation struct {
	ID         int64     `json:"id"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	Code       string    `json:"code"`
	Role       string    `json:"role"`
}

type plan struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Tier         int    `json:"tier"`
	MaxStudents  int64  `json:"max_students"`
	PriceMonthly string `json:"price_monthly"`
	PriceYearly  string `json:"price_yearly"`
}

func strPtr(s string) *string { return &s }

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var plans = []plan{
	{ID: 1, Name: "Basic Plan", Description: "Perfect for small schools", Tier: 1, MaxStudents: 100, PriceMonthly: "99.99", PriceYearly: "999.99"},
	{ID: 2, Name: "Professional Plan", Description: "For growing institutions", Tier: 2, MaxStudents: 500, PriceMonthly: "299.99", PriceYearly: "2999.99"},
	{ID: 3, Name: "Enterprise Plan", Description: "Unlimited potential", Tier: 3, MaxStudents: 999999, PriceMonthly: "999.99", PriceYearly: "9999.99"},
}

var tiers = []map[string]any{
	{"id": 1, "name": "Starter Tier", "language": "en"},
	{"id": 2, "name": "Professional Tier", "language": "en"},
}

func seedMembers() []member {
	return []member{
		{ID: 3, Username: "student_sara", FirstName: "Sara", LastName: "Ahmed", Email: "sara@school.com", Role: "student", CreatedAt: ts("2025-09-15T10:00:00Z"), Phone: strPtr("+966507654321")},
		{ID: 4, Username: "student_mohammed", FirstName: "Mohammed", LastName: "Ali", Email: "mohammed@school.com", Role: "student", CreatedAt: ts("2025-09-15T10:30:00Z"), Phone: strPtr("+966501112233")},
		{ID: 5, Username: "student_layla", FirstName: "Layla", LastName: "Ibrahim", Email: "layla@school.com", Role: "student", CreatedAt: ts("2025-09-16T08:00:00Z")},
		{ID: 6, Username: "student_omar", FirstName: "Omar", LastName: "Khalid", Email: "omar@school.com", Role: "student", CreatedAt: ts("2025-09-16T09:00:00Z"), Phone: strPtr("+966504445566")},
		{ID: 7, Username: "student_huda", FirstName: "Huda", LastName: "Nasser", Email: "huda@school.com", Role: "student", CreatedAt: ts("2025-10-01T11:00:00Z")},
		{ID: 2, Username: "teacher_ali", FirstName: "Ali", LastName: "Hassan", Email: "ali@school.com", Role: "teacher", CreatedAt: ts("2025-08-20T10:00:00Z"), Phone: strPtr("+966501234567")},
		{ID: 8, Username: "teacher_fatima", FirstName: "Fatima", LastName: "Omar", Email: "fatima@school.com", Role: "teacher", CreatedAt: ts("2025-08-20T11:00:00Z"), Phone: strPtr("+966502223344")},
		{ID: 9, Username: "teacher_ahmed", FirstName: "Ahmed", LastName: "Saeed", Email: "ahmed@school.com", Role: "teacher", CreatedAt: ts("2025-08-21T09:00:00Z"), Phone: strPtr("+966503334455")},
		{ID: 10, Username: "teacher_nora", FirstName: "Nora", LastName: "Khalid", Email: "nora@school.com", Role: "teacher", CreatedAt: ts("2025-08-22T10:00:00Z")},
	}
}

func seedInvitations() []invitation {
	return []invitation{
		{ID: 1, IsAccepted: true, CreatedAt: ts("2025-09-01T10:00:00Z"), Code: "INV-A1B2C3", Role: "student"},
		{ID: 2, IsAccepted: true, CreatedAt: ts("2025-09-01T10:00:00Z"), Code: "INV-D4E5F6", Role: "student"},
		{ID: 3, CreatedAt: ts("2026-01-15T14:00:00Z"), Code: "INV-G7H8I9", Role: "teacher"},
		{ID: 4, CreatedAt: ts("2026-02-01T09:00:00Z"), Code: "INV-J1K2L3", Role: "student"},
		{ID: 5, CreatedAt: ts("2026-02-05T11:30:00Z"), Code: "INV-M4N5O6", Role: "student"},
		{ID: 6, CreatedAt: ts("2026-02-10T08:00:00Z"), Code: "INV-P7Q8R9", Role: "admin"},
	}
}

var adminProfileData = map[string]any{
	"id":                       1,
	"total_students":           342,
	"total_teachers":           28,
	"total_classes":            18,
	"level_distribution":       map[string]int{"elementary": 120, "middle": 112, "high": 110},
	"overall_avg_score":        74.5,
	"overall_pass_rate":        82.3,
	"performance_distribution": map[string]int{"excellent": 45, "good": 120, "average": 130, "needs_improvement": 47},
	"subject_performance":      map[string]float64{"Arabic": 78.2, "English": 71.4, "Math": 69.8, "Science": 76.1, "History": 80.5},
	"total_exams_administered": 1256,
}

var teacherProfileData = map[string]any{
	"id":                    2,
	"username":              "teacher_ali",
	"full_name":             "Ali Hassan",
	"email":                 "ali@school.com",
	"phone":                 "+966501234567",
	"subject_info":          map[string]any{"id": 1, "name": "Arabic", "level": "elementary", "semester": "First Semester"},
	"total_students":        65,
	"total_classes":         4,
	"total_exams_created":   32,
	"avg_score":             76.3,
	"avg_pass_rate":         85.1,
	"high_performers_count": 12,
	"grade_distribution":    map[string]int{"A": 12, "B": 20, "C": 18, "D": 10, "F": 5},
	"weak_points":           []string{"Grammar rules", "Essay structure"},
	"strength_points":       []string{"Reading comprehension", "Vocabulary"},
	"rank_in_organization":  3,
	"performance_rating":    "good",
}

var studentSubjectProfiles = []map[string]any{
	{"id": 1, "subject_id": 1, "subject_name": "Arabic", "no_of_exams": 8, "avg_score": 85.3, "pass_rate": 100, "highest_score": 95, "lowest_score": 72, "last_5_exams_avg": 87.1, "weak_points": []string{"Grammar"}, "strength_points": []string{"Reading"}, "rank_in_class": 3, "rank_in_level": 8, "performance_trend": "improving"},
	{"id": 2, "subject_id": 2, "subject_name": "English", "no_of_exams": 7, "avg_score": 78.5, "pass_rate": 85.7, "highest_score": 92, "lowest_score": 60, "last_5_exams_avg": 80.2, "weak_points": []string{"Writing"}, "strength_points": []string{"Listening"}, "rank_in_class": 7, "rank_in_level": 15, "performance_trend": "stable"},
	{"id": 3, "subject_id": 5, "subject_name": "Math", "no_of_exams": 9, "avg_score": 72.1, "pass_rate": 77.8, "highest_score": 88, "lowest_score": 55, "last_5_exams_avg": 74.5, "weak_points": []string{"Fractions", "Word problems"}, "strength_points": []string{"Addition", "Multiplication"}, "rank_in_class": 10, "rank_in_level": 22, "performance_trend": "declining"},
}

var studentProfileData = map[string]any{
	"id":                  3,
	"username":            "student_sara",
	"full_name":           "Sara Ahmed",
	"email":               "sara@school.com",
	"phone":               "+966507654321",
	"level_info":          map[string]any{"id": 1, "stage": "elementary", "grade": "3", "display": "Elementary Grade 3"},
	"longest_streak_days": 14,
	"last_active_date":    "2026-02-10",
	"rank_in_class":       5,
	"rank_in_level":       12,
	"overall_avg_score":   81.2,
	"parent_phone":        "+966509876543",
	"risk_factors":        []string{},
	"subject_profiles":    studentSubjectProfiles,
}

func profileFor(role string) map[string]any {
	switch role {
	case "teacher":
		return map[string]any{"role": "teacher", "profile_data": teacherProfileData}
	case "student":
		return map[string]any{"role": "student", "profile_data": studentProfileData}
	default:
		return map[string]any{"role": role, "profile_data": adminProfileData}
	}
}

func analysisFor(role string) map[string]any {
	switch role {
	case "teacher":
		return map[string]any{
			"profile":          teacherProfileData,
			"managed_students": []any{},
			"class_performance": map[string]any{
				"total_students": 65, "avg_class_score": 76.3, "pass_rate": 85.1, "high_performers": 12,
			},
			"insights": map[string]any{
				"strengths":             []string{"Strong reading comprehension scores", "Consistent student attendance", "High engagement in class activities"},
				"areas_for_improvement": []string{"Essay writing needs more focus", "Grammar assessments below average"},
				"recommendations":       []string{"Introduce weekly essay assignments", "Use interactive grammar exercises", "Peer review sessions"},
			},
		}
	case "student":
		return map[string]any{
			"profile":           studentProfileData,
			"subject_breakdown": studentSubjectProfiles,
			"recent_snapshots": []map[string]any{
				{"id": 1, "student_name": "Sara Ahmed", "subject_name": "Arabic", "period_type": "weekly", "period_start": "2026-02-03", "period_end": "2026-02-09", "exams_taken": 2, "avg_score": 88.5, "pass_rate": 100, "highest_score": 92, "lowest_score": 85, "topics_mastered": []string{"Poetry analysis"}, "topics_struggled": []string{"Advanced grammar"}, "rank_in_period": 4},
				{"id": 2, "student_name": "Sara Ahmed", "subject_name": "Math", "period_type": "weekly", "period_start": "2026-02-03", "period_end": "2026-02-09", "exams_taken": 1, "avg_score": 70, "pass_rate": 100, "highest_score": 70, "lowest_score": 70, "topics_mastered": nil, "topics_struggled": []string{"Fractions"}, "rank_in_period": 12},
			},
			"insights": map[string]any{
				"strengths":             []string{"Consistent performance in Arabic", "Strong reading skills", "Active participation"},
				"areas_for_improvement": []string{"Math problem solving", "English writing skills"},
				"recommendations":       []string{"Practice fraction exercises daily", "Read English short stories", "Join the math study group"},
			},
		}
	default:
		return map[string]any{
			"current_profile": adminProfileData,
			"recent_snapshots": []map[string]any{
				{"id": 1, "period_type": "monthly", "period_start": "2026-01-01", "period_end": "2026-01-31", "academic_year": "2025-2026", "term": "First", "total_students": 342, "avg_score": 74.5, "pass_rate": 82.3, "exams_administered": 156, "growth_from_previous_term": 2.3, "growth_indicator": "improving"},
				{"id": 2, "period_type": "monthly", "period_start": "2025-12-01", "period_end": "2025-12-31", "academic_year": "2025-2026", "term": "First", "total_students": 340, "avg_score": 72.2, "pass_rate": 80.1, "exams_administered": 142, "growth_from_previous_term": -1.1, "growth_indicator": "declining"},
			},
			"teacher_rankings": []map[string]any{
				{"id": 1, "name": "Ali Hassan", "subject": "Arabic", "avg_score": 78.2, "pass_rate": 88.5, "rank": 1},
				{"id": 2, "name": "Fatima Omar", "subject": "Math", "avg_score": 75.1, "pass_rate": 82.3, "rank": 2},
				{"id": 3, "name": "Ahmed Saeed", "subject": "English", "avg_score": 73.8, "pass_rate": 80.9, "rank": 3},
			},
			"subject_insights": []map[string]any{
				{"subject": "Arabic", "avg_score": 78.2, "pass_rate": 88.5, "student_count": 342, "status": "good"},
				{"subject": "English", "avg_score": 71.4, "pass_rate": 80.9, "student_count": 342, "status": "needs_attention"},
				{"subject": "Math", "avg_score": 69.8, "pass_rate": 77.5, "student_count": 342, "status": "needs_attention"},
			},
			"trends": map[string]any{"available": true, "score_trend": "up", "pass_rate_trend": "up", "score_change": 2.3, "pass_rate_change": 2.2},
		}
	}
}

func subjectOverview(id int64) map[string]any {
	return map[string]any{
		"subject":    map[string]any{"id": id, "name": "Arabic", "level": "elementary", "semester": "First Semester"},
		"statistics": map[string]any{"total_students": 120, "avg_score": 78.2, "avg_pass_rate": 88.5},
		"top_performers": []map[string]any{
			{"student_id": 10, "student_name": "Mohammed Ali", "avg_score": 96.5, "rank": 1},
			{"student_id": 11, "student_name": "Layla Ibrahim", "avg_score": 94.2, "rank": 2},
			{"student_id": 12, "student_name": "Omar Khalid", "avg_score": 92.8, "rank": 3},
			{"student_id": 3, "student_name": "Sara Ahmed", "avg_score": 85.3, "rank": 8},
		},
	}
}

func subscriptionFixture() map[string]any {
	return map[string]any{
		"id":            1,
		"plane_data":    plans[1],
		"tier_data":     tiers[1],
		"billing_cycle": "yearly",
		"status":        "active",
		"start_date":    "2025-09-01T00:00:00Z",
		"end_date":      "2026-09-01T00:00:00Z",
		"get_usage_info": map[string]any{
			"current_students": 342, "max_students": 500, "students_remaining": 158, "usage_percentage": 68.4,
		},
	}
}
