package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"egov-portal/models"
	"egov-portal/utils"
)

// SeedTokenStart is the counter value live queue tokens start above. Seeded
// applications hold tokens below it.
const SeedTokenStart = 1000

var seedEpoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

var (
	officeCentral = models.Office{ID: "off-central", Name: "Central Revenue Office", District: "Central", Counters: 4}
	officeNorth   = models.Office{ID: "off-north", Name: "North Municipal Office", District: "North", Counters: 2}
)

// Seed returns the mock dataset the portal starts from. Every call builds
// fresh slices.
func Seed() State {
	return State{
		IsLoading: true,
		View:      ViewLanding,
		CitizenProfiles: []models.Profile{
			{ID: "u1", Name: "Asha Verma", Email: "asha.verma@example.in", Phone: "9876543210", Role: models.RoleCitizen},
			{ID: "u2", Name: "Rahul Mehta", Email: "rahul.mehta@example.in", Phone: "9812345678", Role: models.RoleCitizen},
			{ID: "u3", Name: "Fatima Sheikh", Email: "fatima.sheikh@example.in", Phone: "9900112233", Role: models.RoleCitizen},
		},
		StaffProfiles: []models.Profile{
			{ID: "a1", Name: "Priya Nair", Email: "priya.nair@gov.example.in", Role: models.RoleAdmin, OfficeID: officeCentral.ID},
			{ID: "a2", Name: "Arjun Das", Email: "arjun.das@gov.example.in", Role: models.RoleAdmin, OfficeID: officeNorth.ID},
			{ID: "k1", Name: "Central Kiosk 1", Email: "kiosk.central@gov.example.in", Role: models.RoleKiosk, OfficeID: officeCentral.ID},
			{ID: "s1", Name: "Vikram Rao", Email: "vikram.rao@gov.example.in", Role: models.RoleSuperAdmin},
		},
		Services:      seedServices(),
		Applications:  seedApplications(),
		Wallet:        []models.WalletDocument{},
		Documents:     seedDocuments(),
		Notifications: seedNotifications(),
		Toasts:        []models.Toast{},
		Theme:         models.ThemeLight,
		Language:      models.LanguageEnglish,
	}
}

func seedServices() []models.Service {
	return []models.Service{
		{
			ID:            "svc-land-tax",
			Code:          "LT-01",
			Name:          "Land Tax Payment",
			Category:      "Revenue",
			Description:   "Pay annual land tax for a registered survey number.",
			RequiredDocs:  []string{"aadhaar", "land_record"},
			Fee:           250,
			EstimatedTime: "3 days",
			Offices:       []models.Office{officeCentral},
			FormSchema: schema(map[string]interface{}{
				"type":     "object",
				"required": []string{"survey_number", "district"},
				"properties": map[string]interface{}{
					"survey_number": map[string]interface{}{"type": "string", "minLength": 3},
					"district":      map[string]interface{}{"type": "string"},
				},
			}),
		},
		{
			ID:            "svc-birth-cert",
			Code:          "BC-01",
			Name:          "Birth Certificate",
			Category:      "Civil Registration",
			Description:   "Issue a certified copy of a registered birth.",
			RequiredDocs:  []string{"hospital_record", "aadhaar"},
			Fee:           50,
			EstimatedTime: "7 days",
			Offices:       []models.Office{officeCentral, officeNorth},
			FormSchema: schema(map[string]interface{}{
				"type":     "object",
				"required": []string{"child_name", "date_of_birth"},
				"properties": map[string]interface{}{
					"child_name":     map[string]interface{}{"type": "string", "minLength": 2},
					"date_of_birth":  map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
					"place_of_birth": map[string]interface{}{"type": "string"},
				},
			}),
		},
		{
			ID:            "svc-income-cert",
			Code:          "IC-01",
			Name:          "Income Certificate",
			Category:      "Revenue",
			Description:   "Certify annual household income for scholarships and schemes.",
			RequiredDocs:  []string{"aadhaar", "income_proof"},
			Fee:           30,
			EstimatedTime: "5 days",
			Offices:       []models.Office{officeCentral},
			FormSchema: schema(map[string]interface{}{
				"type":     "object",
				"required": []string{"annual_income"},
				"properties": map[string]interface{}{
					"annual_income": map[string]interface{}{"type": "number", "minimum": 0},
					"purpose":       map[string]interface{}{"type": "string"},
				},
			}),
		},
		{
			ID:            "svc-trade-license",
			Code:          "TL-01",
			Name:          "Trade License",
			Category:      "Municipal",
			Description:   "License to operate a trade or business within municipal limits.",
			RequiredDocs:  []string{"pan", "address_proof"},
			Fee:           1500,
			EstimatedTime: "15 days",
			Offices:       []models.Office{officeNorth},
			FormSchema: schema(map[string]interface{}{
				"type":     "object",
				"required": []string{"business_name", "business_type"},
				"properties": map[string]interface{}{
					"business_name": map[string]interface{}{"type": "string", "minLength": 2},
					"business_type": map[string]interface{}{"type": "string", "enum": []string{"retail", "food", "services", "manufacturing"}},
				},
			}),
		},
		{
			ID:            "svc-water-connection",
			Code:          "WC-01",
			Name:          "New Water Connection",
			Category:      "Utilities",
			Description:   "Apply for a new domestic or commercial water connection.",
			RequiredDocs:  []string{"address_proof"},
			Fee:           500,
			EstimatedTime: "10 days",
			Offices:       []models.Office{officeNorth},
			FormSchema: schema(map[string]interface{}{
				"type":     "object",
				"required": []string{"address", "connection_type"},
				"properties": map[string]interface{}{
					"address":         map[string]interface{}{"type": "string", "minLength": 5},
					"connection_type": map[string]interface{}{"type": "string", "enum": []string{"domestic", "commercial"}},
				},
			}),
		},
	}
}

func seedApplications() []models.Application {
	apps := []models.Application{
		seedApplication("app-1003", "u1", "svc-trade-license", officeNorth.ID, "TKN-0103", 72*time.Hour,
			models.StatusPendingPayment, models.StatusSubmitted, models.StatusProcessing),
		seedApplication("app-1004", "u3", "svc-water-connection", officeNorth.ID, "TKN-0104", 96*time.Hour,
			models.StatusPendingPayment, models.StatusSubmitted),
		seedApplication("app-1005", "u2", "svc-land-tax", officeCentral.ID, "", 120*time.Hour,
			models.StatusPendingPayment),
		seedApplication("app-1002", "u2", "svc-birth-cert", officeCentral.ID, "TKN-0102", 48*time.Hour,
			models.StatusPendingPayment, models.StatusSubmitted, models.StatusProcessing, models.StatusApproved),
		seedApplication("app-1001", "u1", "svc-income-cert", officeCentral.ID, "TKN-0101", 24*time.Hour,
			models.StatusPendingPayment, models.StatusSubmitted, models.StatusProcessing, models.StatusApproved),
	}
	sortApplications(apps)
	return apps
}

// seedApplication builds an application submitted offset after the seed
// epoch whose history walks through statuses one hour apart.
func seedApplication(id, userID, serviceID, officeID, token string, offset time.Duration, statuses ...models.ApplicationStatus) models.Application {
	submitted := seedEpoch.Add(offset)
	history := make([]models.StatusChange, 0, len(statuses))
	for i, st := range statuses {
		at := submitted.Add(time.Duration(i) * time.Hour)
		history = append(history, models.StatusChange{
			Status:    st,
			Timestamp: at,
			Hash:      utils.HistoryHash(id, string(st), at, "seed"),
		})
	}

	payment := models.PaymentPaid
	if len(statuses) == 1 {
		payment = models.PaymentPending
	}
	return models.Application{
		ID:            id,
		ServiceID:     serviceID,
		UserID:        userID,
		SubmittedAt:   submitted,
		Status:        statuses[len(statuses)-1],
		PaymentStatus: payment,
		StatusHistory: history,
		Token:         token,
		OfficeID:      officeID,
		FormData:      map[string]interface{}{},
	}
}

func seedDocuments() []models.WalletDocument {
	return []models.WalletDocument{
		seedDocument("doc-1", "u1", "aadhaar", "aadhaar_card.pdf", models.VerificationVerified, 1),
		seedDocument("doc-2", "u1", "income_proof", "salary_slip_2023.pdf", models.VerificationPending, 2),
		seedDocument("doc-3", "u2", "hospital_record", "hospital_discharge.pdf", models.VerificationPending, 3),
		seedDocument("doc-4", "u3", "address_proof", "electricity_bill.pdf", models.VerificationRejected, 4),
	}
}

func seedDocument(id, userID, docType, fileName string, status models.VerificationStatus, day int) models.WalletDocument {
	sum := sha256.Sum256([]byte(id + "/" + fileName))
	return models.WalletDocument{
		ID:                 id,
		UserID:             userID,
		DocType:            docType,
		FileName:           fileName,
		Hash:               hex.EncodeToString(sum[:]),
		VerificationStatus: status,
		StoragePath:        "wallet/" + userID + "/" + fileName,
		UploadedAt:         seedEpoch.AddDate(0, 0, -day),
	}
}

func seedNotifications() []models.Notification {
	created := seedEpoch.Add(36 * time.Hour)
	return []models.Notification{
		{
			ID: "ntf-2", Office: officeCentral.ID, Type: "status_update", Priority: "high",
			Title: "Income certificate approved", Body: "Your income certificate is ready. Collect it at counter 2 with token TKN-0101.",
			Visibility: models.VisibilityPrivate, TargetUserID: "u1", CreatedBy: "a1", CreatedAt: created,
			Audit: []models.NotificationAudit{{Action: "created", Actor: "a1", At: created}},
		},
		{
			ID: "ntf-1", Office: officeCentral.ID, Type: "announcement", Priority: "normal",
			Title: "Office closed on Republic Day", Body: "All counters of the Central Revenue Office remain closed on 26 January.",
			Visibility: models.VisibilityPublic, CreatedBy: "s1", CreatedAt: seedEpoch,
			Audit: []models.NotificationAudit{{Action: "created", Actor: "s1", At: seedEpoch}},
		},
	}
}

func schema(doc map[string]interface{}) json.RawMessage {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return raw
}
