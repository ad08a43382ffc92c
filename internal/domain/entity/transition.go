package entity

import "slices"

// ExportAction is a named transition operation on an export.
type ExportAction string

const (
	ActionCreate                ExportAction = "CREATE"
	ActionSubmitDraft           ExportAction = "SUBMIT_DRAFT"
	ActionSubmitToECX           ExportAction = "SUBMIT_TO_ECX"
	ActionVerifyECX             ExportAction = "VERIFY_ECX"
	ActionRejectECX             ExportAction = "REJECT_ECX"
	ActionSubmitToECTA          ExportAction = "SUBMIT_TO_ECTA"
	ActionApproveLicense        ExportAction = "APPROVE_LICENSE"
	ActionRejectLicense         ExportAction = "REJECT_LICENSE"
	ActionApproveQuality        ExportAction = "APPROVE_QUALITY"
	ActionRejectQuality         ExportAction = "REJECT_QUALITY"
	ActionApproveOrigin         ExportAction = "APPROVE_ORIGIN"
	ActionRejectOrigin          ExportAction = "REJECT_ORIGIN"
	ActionApproveContract       ExportAction = "APPROVE_CONTRACT"
	ActionRejectContract        ExportAction = "REJECT_CONTRACT"
	ActionVerifyBankDocuments   ExportAction = "VERIFY_BANK_DOCUMENTS"
	ActionRejectBankDocuments   ExportAction = "REJECT_BANK_DOCUMENTS"
	ActionSubmitFXApplication   ExportAction = "SUBMIT_FX_APPLICATION"
	ActionApproveFX             ExportAction = "APPROVE_FX"
	ActionRejectFX              ExportAction = "REJECT_FX"
	ActionClearCustoms          ExportAction = "CLEAR_CUSTOMS"
	ActionRejectCustoms         ExportAction = "REJECT_CUSTOMS"
	ActionRequestShipment       ExportAction = "REQUEST_SHIPMENT"
	ActionScheduleShipment      ExportAction = "SCHEDULE_SHIPMENT"
	ActionMarkShipped           ExportAction = "MARK_SHIPPED"
	ActionConfirmArrival        ExportAction = "CONFIRM_ARRIVAL"
	ActionConfirmDelivery       ExportAction = "CONFIRM_DELIVERY"
	ActionRequestPayment        ExportAction = "REQUEST_PAYMENT"
	ActionConfirmPayment        ExportAction = "CONFIRM_PAYMENT"
	ActionConfirmFXRepatriation ExportAction = "CONFIRM_FX_REPATRIATION"
	ActionComplete              ExportAction = "COMPLETE"
	ActionCancel                ExportAction = "CANCEL"
	ActionUpdateRejected        ExportAction = "UPDATE_REJECTED"
	ActionResubmitRejected      ExportAction = "RESUBMIT_REJECTED"
)

// String returns the string representation of the ExportAction.
func (a ExportAction) String() string {
	return string(a)
}

// ActionPolicy describes who may perform an action and what it records.
type ActionPolicy struct {
	Roles          Roles
	AuditAction    AuditAction
	Severity       Severity
	RequiresReason bool
	ApprovalType   ApprovalType
	Decision       ApprovalDecision
}

// Allows reports whether the role may perform the action. ADMIN may perform every action.
func (p ActionPolicy) Allows(role ActorRole) bool {
	return role == RoleAdmin || p.Roles.Contains(role)
}

// Transition is one resolved edge of the export state machine.
type Transition struct {
	Action ExportAction
	From   ExportStatus
	To     ExportStatus
	ActionPolicy
}

type transitionKey struct {
	from   ExportStatus
	action ExportAction
}

type edge struct {
	from  []ExportStatus
	to    ExportStatus
	audit AuditAction
}

func approve(t ApprovalType, roles ...ActorRole) ActionPolicy {
	return ActionPolicy{Roles: roles, Severity: SeverityMedium, ApprovalType: t, Decision: ApprovalDecisionApproved}
}

func reject(t ApprovalType, roles ...ActorRole) ActionPolicy {
	return ActionPolicy{Roles: roles, Severity: SeverityHigh, RequiresReason: true, ApprovalType: t, Decision: ApprovalDecisionRejected}
}

func step(severity Severity, roles ...ActorRole) ActionPolicy {
	return ActionPolicy{Roles: roles, Severity: severity}
}

// actionPolicies declares every export action with its roles and audit code.
//
//nolint:gochecknoglobals
var actionPolicies = map[ExportAction]ActionPolicy{
	ActionCreate:                withAudit(step(SeverityLow, RoleExporter), AuditActionCreateExport),
	ActionSubmitDraft:           withAudit(step(SeverityLow, RoleExporter), AuditActionSubmitExport),
	ActionSubmitToECX:           withAudit(step(SeverityLow, RoleExporter), AuditActionSubmitToECX),
	ActionVerifyECX:             withAudit(approve(ApprovalTypeECX, RoleECX), AuditActionVerifyECX),
	ActionRejectECX:             withAudit(reject(ApprovalTypeECX, RoleECX), AuditActionRejectECX),
	ActionSubmitToECTA:          withAudit(step(SeverityLow, RoleExporter), AuditActionSubmitToECTA),
	ActionApproveLicense:        withAudit(approve(ApprovalTypeLicense, RoleECTA), AuditActionApproveLicense),
	ActionRejectLicense:         withAudit(reject(ApprovalTypeLicense, RoleECTA), AuditActionRejectLicense),
	ActionApproveQuality:        withAudit(approve(ApprovalTypeQuality, RoleECTA), AuditActionApproveQuality),
	ActionRejectQuality:         withAudit(reject(ApprovalTypeQuality, RoleECTA), AuditActionRejectQuality),
	ActionApproveOrigin:         withAudit(approve(ApprovalTypeOrigin, RoleECTA), AuditActionApproveOrigin),
	ActionRejectOrigin:          withAudit(reject(ApprovalTypeOrigin, RoleECTA), AuditActionRejectOrigin),
	ActionApproveContract:       withAudit(approve(ApprovalTypeContract, RoleECTA), AuditActionApproveContract),
	ActionRejectContract:        withAudit(reject(ApprovalTypeContract, RoleECTA), AuditActionRejectContract),
	ActionVerifyBankDocuments:   withAudit(approve(ApprovalTypeBankDocument, RoleCommercialBank), AuditActionVerifyDocuments),
	ActionRejectBankDocuments:   withAudit(reject(ApprovalTypeBankDocument, RoleCommercialBank), AuditActionRejectDocuments),
	ActionSubmitFXApplication:   withAudit(step(SeverityLow, RoleExporter, RoleCommercialBank), AuditActionSubmitFX),
	ActionApproveFX:             withAudit(withSeverity(approve(ApprovalTypeFX, RoleNationalBank, RoleCommercialBank), SeverityHigh), AuditActionApproveFX),
	ActionRejectFX:              withAudit(reject(ApprovalTypeFX, RoleNationalBank, RoleCommercialBank), AuditActionRejectFX),
	ActionClearCustoms:          withAudit(withSeverity(approve(ApprovalTypeCustoms, RoleCustoms), SeverityHigh), AuditActionClearCustoms),
	ActionRejectCustoms:         withAudit(reject(ApprovalTypeCustoms, RoleCustoms), AuditActionRejectCustoms),
	ActionRequestShipment:       withAudit(step(SeverityLow, RoleExporter), AuditActionRequestShipment),
	ActionScheduleShipment:      withAudit(step(SeverityMedium, RoleShippingLine), AuditActionScheduleShipment),
	ActionMarkShipped:           withAudit(step(SeverityMedium, RoleShippingLine), AuditActionMarkShipped),
	ActionConfirmArrival:        withAudit(step(SeverityLow, RoleShippingLine), AuditActionConfirmArrival),
	ActionConfirmDelivery:       withAudit(step(SeverityMedium, RoleShippingLine, RoleExporter), AuditActionConfirmDelivery),
	ActionRequestPayment:        withAudit(step(SeverityLow, RoleExporter), AuditActionRequestPayment),
	ActionConfirmPayment:        withAudit(step(SeverityMedium, RoleCommercialBank), AuditActionConfirmPayment),
	ActionConfirmFXRepatriation: withAudit(step(SeverityHigh, RoleNationalBank), AuditActionConfirmRepatriate),
	ActionComplete:              withAudit(step(SeverityMedium, RoleNationalBank, RoleECTA), AuditActionCompleteExport),
	ActionCancel:                withAudit(withReason(step(SeverityHigh, RoleExporter, RoleECTA)), AuditActionCancelExport),
	ActionUpdateRejected:        withAudit(step(SeverityMedium, RoleExporter), AuditActionUpdateRejected),
	ActionResubmitRejected:      withAudit(step(SeverityMedium, RoleExporter), AuditActionResubmit),
}

func withAudit(p ActionPolicy, a AuditAction) ActionPolicy {
	p.AuditAction = a

	return p
}

func withSeverity(p ActionPolicy, s Severity) ActionPolicy {
	p.Severity = s

	return p
}

func withReason(p ActionPolicy) ActionPolicy {
	p.RequiresReason = true

	return p
}

// actionEdges lists the forward edges of every action. Cancel and the two
// resubmission actions are derived in buildTransitionTable.
//
//nolint:gochecknoglobals
var actionEdges = map[ExportAction][]edge{
	ActionSubmitDraft: {{from: []ExportStatus{ExportStatusDraft}, to: ExportStatusPending}},
	ActionSubmitToECX: {{from: []ExportStatus{ExportStatusPending}, to: ExportStatusECXPending}},
	ActionVerifyECX:   {{from: []ExportStatus{ExportStatusECXPending}, to: ExportStatusECXVerified}},
	ActionRejectECX:   {{from: []ExportStatus{ExportStatusECXPending}, to: ExportStatusECXRejected}},

	ActionSubmitToECTA:   {{from: []ExportStatus{ExportStatusECXVerified}, to: ExportStatusECTALicensePending}},
	ActionApproveLicense: {{from: []ExportStatus{ExportStatusECTALicensePending}, to: ExportStatusECTALicenseApproved}},
	ActionRejectLicense:  {{from: []ExportStatus{ExportStatusECTALicensePending}, to: ExportStatusECTALicenseRejected}},

	ActionApproveQuality: {
		{from: []ExportStatus{ExportStatusECTALicenseApproved, ExportStatusECTAQualityPending}, to: ExportStatusECTAQualityApproved},
		{from: []ExportStatus{ExportStatusPending}, to: ExportStatusQualityCertified},
	},
	ActionRejectQuality: {
		{from: []ExportStatus{ExportStatusECTALicenseApproved, ExportStatusECTAQualityPending, ExportStatusPending}, to: ExportStatusECTAQualityRejected},
	},

	ActionApproveOrigin: {{from: []ExportStatus{ExportStatusECTAQualityApproved, ExportStatusECTAOriginPending}, to: ExportStatusECTAOriginApproved}},
	ActionRejectOrigin:  {{from: []ExportStatus{ExportStatusECTAQualityApproved, ExportStatusECTAOriginPending}, to: ExportStatusECTAOriginRejected}},

	ActionApproveContract: {{from: []ExportStatus{ExportStatusECTAOriginApproved, ExportStatusECTAContractPending}, to: ExportStatusECTAContractApproved}},
	ActionRejectContract:  {{from: []ExportStatus{ExportStatusECTAOriginApproved, ExportStatusECTAContractPending}, to: ExportStatusECTAContractRejected}},

	ActionVerifyBankDocuments: {{from: []ExportStatus{ExportStatusECTAContractApproved, ExportStatusBankDocumentPending}, to: ExportStatusBankDocumentVerified}},
	ActionRejectBankDocuments: {{from: []ExportStatus{ExportStatusECTAContractApproved, ExportStatusBankDocumentPending}, to: ExportStatusBankDocumentRejected}},

	ActionSubmitFXApplication: {{from: []ExportStatus{ExportStatusBankDocumentVerified}, to: ExportStatusFXApplicationPending}},
	ActionApproveFX: {
		{from: []ExportStatus{ExportStatusFXApplicationPending}, to: ExportStatusFXApproved},
		{from: []ExportStatus{ExportStatusQualityCertified}, to: ExportStatusFXApproved, audit: AuditActionBankingApproved},
	},
	ActionRejectFX: {{from: []ExportStatus{ExportStatusFXApplicationPending, ExportStatusQualityCertified}, to: ExportStatusFXRejected}},

	ActionClearCustoms:  {{from: []ExportStatus{ExportStatusFXApproved, ExportStatusCustomsPending}, to: ExportStatusCustomsCleared}},
	ActionRejectCustoms: {{from: []ExportStatus{ExportStatusFXApproved, ExportStatusCustomsPending}, to: ExportStatusCustomsRejected}},

	ActionRequestShipment:  {{from: []ExportStatus{ExportStatusCustomsCleared}, to: ExportStatusShipmentPending}},
	ActionScheduleShipment: {{from: []ExportStatus{ExportStatusCustomsCleared, ExportStatusShipmentPending}, to: ExportStatusShipmentScheduled}},
	ActionMarkShipped:      {{from: []ExportStatus{ExportStatusShipmentScheduled}, to: ExportStatusShipped}},
	ActionConfirmArrival:   {{from: []ExportStatus{ExportStatusShipped}, to: ExportStatusArrived}},
	ActionConfirmDelivery:  {{from: []ExportStatus{ExportStatusShipped, ExportStatusArrived}, to: ExportStatusDelivered}},

	ActionRequestPayment:        {{from: []ExportStatus{ExportStatusDelivered}, to: ExportStatusPaymentPending}},
	ActionConfirmPayment:        {{from: []ExportStatus{ExportStatusDelivered, ExportStatusPaymentPending}, to: ExportStatusPaymentReceived}},
	ActionConfirmFXRepatriation: {{from: []ExportStatus{ExportStatusPaymentReceived}, to: ExportStatusFXRepatriated}},
	ActionComplete:              {{from: []ExportStatus{ExportStatusFXRepatriated}, to: ExportStatusCompleted}},
}

//nolint:gochecknoglobals
var transitionTable = buildTransitionTable()

func buildTransitionTable() map[transitionKey]Transition {
	table := make(map[transitionKey]Transition)

	add := func(action ExportAction, from, to ExportStatus, audit AuditAction) {
		policy := actionPolicies[action]
		if audit != "" {
			policy.AuditAction = audit
		}
		table[transitionKey{from: from, action: action}] = Transition{
			Action:       action,
			From:         from,
			To:           to,
			ActionPolicy: policy,
		}
	}

	for action, edges := range actionEdges {
		for _, e := range edges {
			for _, from := range e.from {
				add(action, from, e.to, e.audit)
			}
		}
	}

	for rejected, pending := range resubmissionTargets {
		add(ActionUpdateRejected, rejected, pending, "")
		add(ActionResubmitRejected, rejected, pending, "")
	}

	shipped := slices.Index(AllExportStatuses, ExportStatusShipped)
	for _, from := range AllExportStatuses[:shipped] {
		add(ActionCancel, from, ExportStatusCancelled, "")
	}

	return table
}

// PolicyFor returns the policy of an action.
func PolicyFor(action ExportAction) (ActionPolicy, bool) {
	p, ok := actionPolicies[action]

	return p, ok
}

// ResolveTransition returns the edge taken when action is applied at status from.
// Terminal statuses have no outgoing edges.
func ResolveTransition(from ExportStatus, action ExportAction) (Transition, bool) {
	if from.IsTerminal() {
		return Transition{}, false
	}
	t, ok := transitionTable[transitionKey{from: from, action: action}]

	return t, ok
}

type rejectionOrigin struct {
	rejected ExportStatus
	from     ExportStatus
}

// bankCentricResubmissions sends rejections raised in the bank-centric flow back
// to the status they were raised at instead of the ECTA stage pending status.
//
//nolint:gochecknoglobals
var bankCentricResubmissions = map[rejectionOrigin]ExportStatus{
	{rejected: ExportStatusECTAQualityRejected, from: ExportStatusPending}:   ExportStatusPending,
	{rejected: ExportStatusFXRejected, from: ExportStatusQualityCertified}: ExportStatusQualityCertified,
}

// ResubmissionFrom retargets a resubmission using the status the export held when
// it was rejected. Any other transition is returned unchanged.
func ResubmissionFrom(t Transition, rejectedFrom ExportStatus) Transition {
	if t.Action != ActionResubmitRejected && t.Action != ActionUpdateRejected {
		return t
	}
	if to, ok := bankCentricResubmissions[rejectionOrigin{rejected: t.From, from: rejectedFrom}]; ok {
		t.To = to
	}

	return t
}

// AvailableActions lists the actions that are legal at a status, sorted by name.
func AvailableActions(from ExportStatus) []ExportAction {
	actions := make([]ExportAction, 0)
	for key := range transitionTable {
		if key.from == from && !from.IsTerminal() {
			actions = append(actions, key.action)
		}
	}
	slices.Sort(actions)

	return actions
}
