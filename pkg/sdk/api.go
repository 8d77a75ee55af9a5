package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	tenantPath          = "/api/tenant/"
	profilePath         = "/api/analytics/profile/"
	analysisPath        = "/api/analytics/analysis/"
	studentsAnalysis    = "/api/analytics/analysis/students/"
	teachersAnalysis    = "/api/analytics/analysis/teachers/"
	subjectAnalysisPath = "/api/analytics/subject-analysis/"
	// the backend spells it this way
	subscriptionPath = "/api/subiscription/"
	usersPath        = "/api/users/"
	invitationsPath  = "/api/users/invite-code/"
)

// GetTenant fetches the tenant record for this client's base address.
// Callers that must never fail should use TenantClient.Lookup instead.
func (c *Client) GetTenant(ctx context.Context) (*Tenant, error) {
	var tenant Tenant
	if err := c.get(ctx, tenantPath, nil, &tenant); err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &tenant, nil
}

// FetchTenant implements TenantFetcher against baseURL with this client's transport.
func (c *Client) FetchTenant(ctx context.Context, baseURL string) (*Tenant, error) {
	var tenant Tenant
	if err := c.do(ctx, http.MethodGet, baseURL+tenantPath, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetProfile returns the caller's profile.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, profilePath, nil, &profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// GetAnalysis returns the role-specific general analysis.
func (c *Client) GetAnalysis(ctx context.Context) (Analysis, error) {
	var out Analysis
	if err := c.get(ctx, analysisPath, nil, &out); err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return out, nil
}

// GetStudentsAnalysis returns per-student analysis; zero ids are omitted.
func (c *Client) GetStudentsAnalysis(ctx context.Context, subjectID, levelID int64) (Analysis, error) {
	if err := c.require(CapabilityAnalysis); err != nil {
		return nil, err
	}
	query := url.Values{}
	setID(query, "subject_id", subjectID)
	setID(query, "level_id", levelID)

	var out Analysis
	if err := c.get(ctx, studentsAnalysis, query, &out); err != nil {
		return nil, fmt.Errorf("get students analysis: %w", err)
	}
	return out, nil
}

// GetTeachersAnalysis returns per-teacher analysis; a zero subjectID is omitted.
func (c *Client) GetTeachersAnalysis(ctx context.Context, subjectID int64) (Analysis, error) {
	if err := c.require(CapabilityAnalysis); err != nil {
		return nil, err
	}
	query := url.Values{}
	setID(query, "subject_id", subjectID)

	var out Analysis
	if err := c.get(ctx, teachersAnalysis, query, &out); err != nil {
		return nil, fmt.Errorf("get teachers analysis: %w", err)
	}
	return out, nil
}

// GetSubjectOverview returns statistics for one subject.
func (c *Client) GetSubjectOverview(ctx context.Context, subjectID int64) (Analysis, error) {
	var out Analysis
	path := subjectAnalysisPath + strconv.FormatInt(subjectID, 10) + "/"
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get subject %d overview: %w", subjectID, err)
	}
	return out, nil
}

// GetSubjectStudents returns the students of one subject.
func (c *Client) GetSubjectStudents(ctx context.Context, subjectID int64) (Analysis, error) {
	var out Analysis
	path := subjectAnalysisPath + strconv.FormatInt(subjectID, 10) + "/students/"
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get subject %d students: %w", subjectID, err)
	}
	return out, nil
}

// GetSubscription returns the tenant's subscription, or nil when it has none.
func (c *Client) GetSubscription(ctx context.Context) (*Subscription, error) {
	if err := c.require(CapabilitySubscription); err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.get(ctx, subscriptionPath+"detail/", nil, &sub); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

// CreateSubscription subscribes the tenant to a plan.
func (c *Client) CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*Subscription, error) {
	if err := c.require(CapabilitySubscription); err != nil {
		return nil, err
	}
	if input.PlanID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if input.BillingCycle == "" {
		input.BillingCycle = "monthly"
	}
	var sub Subscription
	if err := c.do(ctx, http.MethodPost, c.baseURL+subscriptionPath, input, &sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return &sub, nil
}

// ListPlans returns the available plans, localised to language when set.
func (c *Client) ListPlans(ctx context.Context, language string) ([]Plan, error) {
	var plans listEnvelope[Plan]
	if err := c.get(ctx, subscriptionPath+"plans/", languageQuery(language), &plans); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans.Items, nil
}

// ListTiers returns the available tiers, localised to language when set.
func (c *Client) ListTiers(ctx context.Context, language string) ([]Tier, error) {
	var tiers listEnvelope[Tier]
	if err := c.get(ctx, subscriptionPath+"tiers/", languageQuery(language), &tiers); err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	return tiers.Items, nil
}

// ListMembers lists tenant users, optionally by role and username.
func (c *Client) ListMembers(ctx context.Context, input ListMembersInput) ([]Member, error) {
	if err := c.require(CapabilityMembers); err != nil {
		return nil, err
	}
	query := url.Values{}
	if input.Role != "" {
		query.Set("role", string(input.Role))
	}
	if input.Username != "" {
		query.Set("username", input.Username)
	}

	var members listEnvelope[Member]
	if err := c.get(ctx, usersPath, query, &members); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members.Items, nil
}

// ListInvitations lists invite codes, optionally those created by userID.
func (c *Client) ListInvitations(ctx context.Context, userID int64) ([]Invitation, error) {
	if err := c.require(CapabilityInvitations); err != nil {
		return nil, err
	}
	query := url.Values{}
	setID(query, "user_id", userID)

	var invitations listEnvelope[Invitation]
	if err := c.get(ctx, invitationsPath, query, &invitations); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations.Items, nil
}

// CreateInvitations generates invite codes. A Count of zero or one creates one.
func (c *Client) CreateInvitations(ctx context.Context, input CreateInvitationsInput) ([]Invitation, error) {
	if err := c.require(CapabilityInvitations); err != nil {
		return nil, err
	}
	if _, ok := ParseRole(string(input.Role)); !ok {
		return nil, fmt.Errorf("invalid invitation role %q", input.Role)
	}

	target := c.baseURL + invitationsPath
	if input.Count > 0 {
		target += "?count=" + strconv.Itoa(input.Count)
	}

	var created oneOrMany[Invitation]
	body := map[string]string{"role": string(input.Role)}
	if err := c.do(ctx, http.MethodPost, target, body, &created); err != nil {
		return nil, fmt.Errorf("create invitations: %w", err)
	}
	return created.Items, nil
}

// DeleteInvitations removes invite codes by id.
func (c *Client) DeleteInvitations(ctx context.Context, ids []int64) error {
	if err := c.require(CapabilityInvitations); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	body := map[string][]int64{"ids": ids}
	if err := c.do(ctx, http.MethodDelete, c.baseURL+invitationsPath, body, nil); err != nil {
		return fmt.Errorf("delete invitations: %w", err)
	}
	return nil
}

func setID(query url.Values, key string, id int64) {
	if id != 0 {
		query.Set(key, strconv.FormatInt(id, 10))
	}
}

func languageQuery(language string) url.Values {
	if language == "" {
		return nil
	}
	return url.Values{"language": []string{language}}
}
