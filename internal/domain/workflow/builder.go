package workflow

import (
	"fmt"
	"sort"
)

// GuardFunc evaluates whether a rule applies to the current form facts
type GuardFunc func(f Facts) bool

// TableBuilder builds a configured transition table
type TableBuilder interface {
	// Action returns the configuration for the given action
	Action(action Action) ActionConfiguration

	// Page returns the configuration for the given page
	Page(page Page) PageConfiguration

	// Build creates an immutable table from the current configuration
	Build() Table
}

// ActionConfiguration configures what confirming an action does.
// Status rules are evaluated in the order they were added; the first
// passing rule wins.
type ActionConfiguration interface {
	// Status moves the record to status when no earlier rule passed
	Status(status Status) ActionConfiguration

	// StatusIf moves the record to status if the guard passes
	StatusIf(guard GuardFunc, status Status) ActionConfiguration

	// KeepStatusIf leaves the status untouched if the guard passes
	KeepStatusIf(guard GuardFunc) ActionConfiguration

	// Split saves one sub-record per pending installment
	Split() ActionConfiguration

	// SplitIf splits only if the guard passes
	SplitIf(guard GuardFunc) ActionConfiguration

	// Extra merges a fixed field into the saved record
	Extra(field string, value interface{}) ActionConfiguration

	// ExtraFromNote merges the text typed by the user into field
	ExtraFromNote(field string) ActionConfiguration

	// FollowUpIf runs another save after the main one if the guard passes
	FollowUpIf(guard GuardFunc, step Step) ActionConfiguration

	// PrintLayout opens the purchase order print layout after the saves
	PrintLayout() ActionConfiguration

	// Reset cleans the form before the main save
	Reset(kind ResetKind) ActionConfiguration

	// Validate checks the required fields before anything is saved
	Validate() ActionConfiguration
}

// PageConfiguration configures what a page offers
type PageConfiguration interface {
	// Offer adds actions to the page buttons
	Offer(actions ...Action) PageConfiguration

	// Editable leaves the given fields writable on the page
	Editable(fields ...string) PageConfiguration

	// EditableAll leaves every field writable on the page
	EditableAll() PageConfiguration
}

type statusRule struct {
	guard  GuardFunc
	status *Status
}

type followUp struct {
	guard GuardFunc
	step  Step
}

// actionConfig implements ActionConfiguration
type actionConfig struct {
	action      Action
	statusRules []statusRule
	split       bool
	splitGuard  GuardFunc
	extra       map[string]interface{}
	noteFields  []string
	followUps   []followUp
	printLayout bool
	reset       ResetKind
	validate    bool
}

// pageConfig implements PageConfiguration
type pageConfig struct {
	page        Page
	offers      []Action
	editable    map[string]bool
	editableAll bool
}

// tableBuilder implements TableBuilder
type tableBuilder struct {
	actions map[Action]*actionConfig
	pages   map[Page]*pageConfig
}

// NewBuilder creates a new transition table builder
func NewBuilder() TableBuilder {
	return &tableBuilder{
		actions: make(map[Action]*actionConfig),
		pages:   make(map[Page]*pageConfig),
	}
}

// Action returns the configuration for the given action
func (b *tableBuilder) Action(action Action) ActionConfiguration {
	if action == "" {
		panic("empty action")
	}

	config, exists := b.actions[action]
	if !exists {
		config = &actionConfig{
			action: action,
			extra:  make(map[string]interface{}),
		}
		b.actions[action] = config
	}

	return config
}

// Page returns the configuration for the given page
func (b *tableBuilder) Page(page Page) PageConfiguration {
	if page == "" {
		panic("empty page")
	}

	config, exists := b.pages[page]
	if !exists {
		config = &pageConfig{
			page:     page,
			editable: make(map[string]bool),
		}
		b.pages[page] = config
	}

	return config
}

// Build creates an immutable table from the current configuration
func (b *tableBuilder) Build() Table {
	actions := make(map[Action]*actionConfig, len(b.actions))
	for action, config := range b.actions {
		actions[action] = config.clone()
	}

	pages := make(map[Page]*pageConfig, len(b.pages))
	for page, config := range b.pages {
		editable := make(map[string]bool, len(config.editable))
		for field := range config.editable {
			editable[field] = true
		}
		pages[page] = &pageConfig{
			page:        page,
			offers:      append([]Action{}, config.offers...),
			editable:    editable,
			editableAll: config.editableAll,
		}
	}

	return &transitionTable{
		actions: actions,
		pages:   pages,
	}
}

func (c *actionConfig) clone() *actionConfig {
	extra := make(map[string]interface{}, len(c.extra))
	for k, v := range c.extra {
		extra[k] = v
	}

	followUps := make([]followUp, len(c.followUps))
	for i, f := range c.followUps {
		followUps[i] = followUp{guard: f.guard, step: cloneStep(f.step)}
	}

	return &actionConfig{
		action:      c.action,
		statusRules: append([]statusRule{}, c.statusRules...),
		split:       c.split,
		splitGuard:  c.splitGuard,
		extra:       extra,
		noteFields:  append([]string{}, c.noteFields...),
		followUps:   followUps,
		printLayout: c.printLayout,
		reset:       c.reset,
		validate:    c.validate,
	}
}

func cloneStep(s Step) Step {
	out := s
	if s.Status != nil {
		out.Status = s.Status.Ptr()
	}
	if s.ExtraFields != nil {
		out.ExtraFields = make(map[string]interface{}, len(s.ExtraFields))
		for k, v := range s.ExtraFields {
			out.ExtraFields[k] = v
		}
	}
	return out
}

// Status moves the record to status when no earlier rule passed
func (c *actionConfig) Status(status Status) ActionConfiguration {
	return c.StatusIf(nil, status)
}

// StatusIf moves the record to status if the guard passes
func (c *actionConfig) StatusIf(guard GuardFunc, status Status) ActionConfiguration {
	if !status.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", status))
	}

	c.statusRules = append(c.statusRules, statusRule{guard: guard, status: status.Ptr()})
	return c
}

// KeepStatusIf leaves the status untouched if the guard passes
func (c *actionConfig) KeepStatusIf(guard GuardFunc) ActionConfiguration {
	c.statusRules = append(c.statusRules, statusRule{guard: guard})
	return c
}

// Split saves one sub-record per pending installment
func (c *actionConfig) Split() ActionConfiguration {
	c.split = true
	c.splitGuard = nil
	return c
}

// SplitIf splits only if the guard passes
func (c *actionConfig) SplitIf(guard GuardFunc) ActionConfiguration {
	c.split = true
	c.splitGuard = guard
	return c
}

// Extra merges a fixed field into the saved record
func (c *actionConfig) Extra(field string, value interface{}) ActionConfiguration {
	c.extra[field] = value
	return c
}

// ExtraFromNote merges the text typed by the user into field
func (c *actionConfig) ExtraFromNote(field string) ActionConfiguration {
	c.noteFields = append(c.noteFields, field)
	return c
}

// FollowUpIf runs another save after the main one if the guard passes
func (c *actionConfig) FollowUpIf(guard GuardFunc, step Step) ActionConfiguration {
	if step.Status != nil && !step.Status.IsValid() {
		panic(fmt.Sprintf("invalid follow-up status: %s", *step.Status))
	}

	c.followUps = append(c.followUps, followUp{guard: guard, step: cloneStep(step)})
	return c
}

// PrintLayout opens the purchase order print layout after the saves
func (c *actionConfig) PrintLayout() ActionConfiguration {
	c.printLayout = true
	return c
}

// Reset cleans the form before the main save
func (c *actionConfig) Reset(kind ResetKind) ActionConfiguration {
	c.reset = kind
	return c
}

// Validate checks the required fields before anything is saved
func (c *actionConfig) Validate() ActionConfiguration {
	c.validate = true
	return c
}

// Offer adds actions to the page buttons
func (c *pageConfig) Offer(actions ...Action) PageConfiguration {
	for _, a := range actions {
		if !containsAction(c.offers, a) {
			c.offers = append(c.offers, a)
		}
	}
	return c
}

// Editable leaves the given fields writable on the page
func (c *pageConfig) Editable(fields ...string) PageConfiguration {
	for _, f := range fields {
		c.editable[f] = true
	}
	return c
}

// EditableAll leaves every field writable on the page
func (c *pageConfig) EditableAll() PageConfiguration {
	c.editableAll = true
	return c
}

// resolve evaluates the configuration against the facts
func (c *actionConfig) resolve(f Facts) Resolution {
	r := Resolution{
		Action:             c.action,
		ExtraFields:        make(map[string]interface{}, len(c.extra)+len(c.noteFields)),
		Reset:              c.reset,
		PrintLayout:        c.printLayout,
		RequiresValidation: c.validate,
		Known:              true,
	}

	for _, rule := range c.statusRules {
		if rule.guard == nil || rule.guard(f) {
			if rule.status != nil {
				r.TargetStatus = rule.status.Ptr()
			}
			break
		}
	}

	r.SplitByInstallment = c.split && (c.splitGuard == nil || c.splitGuard(f))

	for k, v := range c.extra {
		r.ExtraFields[k] = v
	}
	for _, field := range c.noteFields {
		r.ExtraFields[field] = f.Note
	}

	for _, fu := range c.followUps {
		if fu.guard == nil || fu.guard(f) {
			r.FollowUps = append(r.FollowUps, cloneStep(fu.step))
		}
	}

	return r
}

func containsAction(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

func sortedActions(m map[Action]*actionConfig) []Action {
	out := make([]Action, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
