package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/merchpilot/reco-console/internal/rules"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// ListRulesHandler handles filtered, paginated rule listings. The
// listing also refreshes the optimistic session so subsequent toggles
// and deletes operate on what the caller last saw.
func (api *API) ListRulesHandler(c *gin.Context) {
	query := services.ListRulesQuery{
		Tenant:   api.tenant(c),
		Mode:     c.DefaultQuery("mode", "all"),
		Kind:     c.DefaultQuery("kind", "all"),
		Query:    c.Query("q"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}

	list, err := api.session.Refresh(c.Request.Context(), query)
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ruleResponse pairs a saved rule with its non-fatal warnings.
type ruleResponse struct {
	Rule     model.Rule `json:"rule"`
	Warnings []string   `json:"warnings,omitempty"`
}

// CreateRuleHandler creates a rule from a full document.
// Request Body: model.Rule
func (api *API) CreateRuleHandler(c *gin.Context) {
	var rule model.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	api.createRule(c, rule)
}

// CreateRuleFormHandler creates a rule from the editor's flat form
// representation.
// Request Body: rules.RuleForm
func (api *API) CreateRuleFormHandler(c *gin.Context) {
	var form rules.RuleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	rule, err := form.Document()
	if err != nil {
		SendServiceError(c, err)
		return
	}
	api.createRule(c, rule)
}

func (api *API) createRule(c *gin.Context, rule model.Rule) {
	if rule.Tenant == "" {
		rule.Tenant = api.tenant(c)
	}
	if err := rules.Validate(rule); err != nil {
		SendServiceError(c, err)
		return
	}

	created, err := api.deps.Rules.CreateRule(c.Request.Context(), rule)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ruleResponse{Rule: created, Warnings: rules.Warnings(created)})
}

// GetRuleHandler returns one rule document.
func (api *API) GetRuleHandler(c *gin.Context) {
	rule, err := api.deps.Rules.GetRule(c.Request.Context(), c.Param("ruleId"))
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// GetRuleFormHandler returns one rule flattened into its editable form
// representation.
func (api *API) GetRuleFormHandler(c *gin.Context) {
	rule, err := api.deps.Rules.GetRule(c.Request.Context(), c.Param("ruleId"))
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules.ToForm(rule))
}

// UpdateRuleHandler replaces a rule document.
// Request Body: model.Rule
func (api *API) UpdateRuleHandler(c *gin.Context) {
	var rule model.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	api.updateRule(c, rule)
}

// UpdateRuleFormHandler replaces a rule from its form representation.
// Request Body: rules.RuleForm
func (api *API) UpdateRuleFormHandler(c *gin.Context) {
	var form rules.RuleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	rule, err := form.Document()
	if err != nil {
		SendServiceError(c, err)
		return
	}
	api.updateRule(c, rule)
}

func (api *API) updateRule(c *gin.Context, rule model.Rule) {
	rule.ID = c.Param("ruleId")
	if err := rules.Validate(rule); err != nil {
		SendServiceError(c, err)
		return
	}

	updated, err := api.deps.Rules.UpdateRule(c.Request.Context(), rule)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ruleResponse{Rule: updated, Warnings: rules.Warnings(updated)})
}

// ToggleRuleHandler flips a rule between active and paused through the
// optimistic session, so a failed store call rolls the list back.
func (api *API) ToggleRuleHandler(c *gin.Context) {
	ruleID := c.Param("ruleId")
	ctx := c.Request.Context()

	if err := api.ensureSession(c); err != nil {
		SendServiceError(c, err)
		return
	}

	mode, err := api.session.TogglePause(ctx, ruleID)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule_id": ruleID, "mode": mode})
}

// DeleteRuleHandler removes a rule through the optimistic session.
func (api *API) DeleteRuleHandler(c *gin.Context) {
	ruleID := c.Param("ruleId")

	if err := api.ensureSession(c); err != nil {
		SendServiceError(c, err)
		return
	}

	if err := api.session.Delete(c.Request.Context(), ruleID); err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule '" + ruleID + "' deleted successfully"})
}

// ensureSession loads the session list when no listing has happened yet
// in this process, or when the target rule is not in the cached page.
func (api *API) ensureSession(c *gin.Context) error {
	ruleID := c.Param("ruleId")
	for _, rule := range api.session.Items() {
		if rule.ID == ruleID {
			return nil
		}
	}
	_, err := api.session.Refresh(c.Request.Context(), services.ListRulesQuery{
		Tenant:   api.tenant(c),
		PageSize: 1000,
	})
	return err
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
