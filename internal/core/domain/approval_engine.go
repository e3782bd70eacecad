package domain

import "github.com/shopspring/decimal"

// FlowPlan is the materialization decision for a freshly submitted expense:
// either auto-approve it outright, or create a flow with the given steps.
// An empty plan (no auto-approve, no steps) leaves the expense pending with
// no flow.
type FlowPlan struct {
	RuleID      *string
	AutoApprove bool
	Steps       []ApprovalStep
}

// PlanFlow computes the approval steps for an expense submitted by submitter.
//
// With no rule: admins are auto-approved, everyone else gets a single-step
// manager flow when they have a manager. With a rule: an optional
// manager-first prefix step is followed by the rule-type-specific steps,
// where percentage-style approvers form a parallel cohort sharing one step
// number. approverPool holds the company's active admins and managers; the
// submitter and, for hybrid rules, the specific approver are filtered out of
// the cohort here regardless of what the caller passed.
//
// A rule whose configuration yields zero steps falls back to the no-rule
// plan, so an unevaluable empty flow is never produced.
func PlanFlow(submitter User, rule *ApprovalRule, approverPool []User) FlowPlan {
	if rule == nil {
		return planDefault(submitter)
	}

	var steps []ApprovalStep
	stepNumber := 1

	if rule.IsManagerFirst && submitter.ManagerID != nil {
		steps = append(steps, ApprovalStep{
			StepNumber: stepNumber,
			ApproverID: *submitter.ManagerID,
			Status:     StepPending,
		})
		stepNumber++
	}

	switch rule.RuleType {
	case RuleSpecific:
		if rule.SpecificApproverID != nil {
			steps = append(steps, ApprovalStep{
				StepNumber: stepNumber,
				ApproverID: *rule.SpecificApproverID,
				Status:     StepPending,
			})
		}
	case RulePercentage:
		steps = append(steps, cohortSteps(stepNumber, submitter, nil, approverPool)...)
	case RuleHybrid:
		if rule.SpecificApproverID != nil {
			steps = append(steps, ApprovalStep{
				StepNumber: stepNumber,
				ApproverID: *rule.SpecificApproverID,
				Status:     StepPending,
			})
		}
		steps = append(steps, cohortSteps(stepNumber, submitter, rule.SpecificApproverID, approverPool)...)
	}

	if len(steps) == 0 {
		return planDefault(submitter)
	}

	ruleID := rule.RuleID
	return FlowPlan{RuleID: &ruleID, Steps: steps}
}

func planDefault(submitter User) FlowPlan {
	if submitter.Role == RoleAdmin {
		return FlowPlan{AutoApprove: true}
	}
	if submitter.ManagerID != nil {
		return FlowPlan{Steps: []ApprovalStep{{
			StepNumber: 1,
			ApproverID: *submitter.ManagerID,
			Status:     StepPending,
		}}}
	}
	return FlowPlan{}
}

func cohortSteps(stepNumber int, submitter User, excludeID *string, pool []User) []ApprovalStep {
	var steps []ApprovalStep
	for _, u := range pool {
		if !u.IsActive || !u.Role.IsApproverRole() {
			continue
		}
		if u.UserID == submitter.UserID {
			continue
		}
		if excludeID != nil && u.UserID == *excludeID {
			continue
		}
		steps = append(steps, ApprovalStep{
			StepNumber: stepNumber,
			ApproverID: u.UserID,
			Status:     StepPending,
		})
	}
	return steps
}

// FlowOutcome is the result of re-evaluating a flow after one decision.
// Status is ExpensePending while the flow stays open; AdvanceStep signals a
// sequential flow should move its currentStep pointer forward.
type FlowOutcome struct {
	Status      ExpenseStatus
	AdvanceStep bool
}

// EvaluateFlow decides whether the flow reached a terminal status after the
// given step was marked with action. flow.Steps must already reflect the
// decided step and be ordered by stepNumber ascending. rule is nil for
// sequential default flows.
//
// Any single rejection vetoes the whole flow. On approval the policy is per
// rule type: SPECIFIC approves only when the designated approver acted;
// PERCENTAGE approves when approved/total steps reaches the threshold
// (every step of the flow counts, including a manager-first prefix);
// HYBRID approves on either condition; a no-rule flow approves when the
// decided step completes a fully approved prefix with nothing after it, and
// otherwise just advances.
func EvaluateFlow(flow *ApprovalFlow, rule *ApprovalRule, decided *ApprovalStep, action ApprovalAction) FlowOutcome {
	if action == ActionReject {
		return FlowOutcome{Status: ExpenseRejected}
	}

	if rule != nil {
		switch rule.RuleType {
		case RuleSpecific:
			if rule.SpecificApproverID != nil && *rule.SpecificApproverID == decided.ApproverID {
				return FlowOutcome{Status: ExpenseApproved}
			}
		case RulePercentage:
			if thresholdReached(flow.Steps, rule.Threshold()) {
				return FlowOutcome{Status: ExpenseApproved}
			}
		case RuleHybrid:
			if rule.SpecificApproverID != nil && *rule.SpecificApproverID == decided.ApproverID {
				return FlowOutcome{Status: ExpenseApproved}
			}
			if thresholdReached(flow.Steps, rule.Threshold()) {
				return FlowOutcome{Status: ExpenseApproved}
			}
		}
		return FlowOutcome{Status: ExpensePending}
	}

	// Sequential default flow: the decided step must complete an approved
	// prefix of the ordered step list.
	idx := -1
	for i := range flow.Steps {
		if flow.Steps[i].StepID == decided.StepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return FlowOutcome{Status: ExpensePending}
	}
	for i := 0; i <= idx; i++ {
		if flow.Steps[i].Status != StepApproved {
			return FlowOutcome{Status: ExpensePending}
		}
	}
	if idx == len(flow.Steps)-1 {
		return FlowOutcome{Status: ExpenseApproved}
	}
	return FlowOutcome{Status: ExpensePending, AdvanceStep: true}
}

// thresholdReached checks approved/total*100 >= threshold without division.
func thresholdReached(steps []ApprovalStep, threshold decimal.Decimal) bool {
	if len(steps) == 0 {
		return false
	}
	approved := 0
	for i := range steps {
		if steps[i].Status == StepApproved {
			approved++
		}
	}
	pct := decimal.NewFromInt(int64(approved * 100))
	return pct.GreaterThanOrEqual(threshold.Mul(decimal.NewFromInt(int64(len(steps)))))
}
