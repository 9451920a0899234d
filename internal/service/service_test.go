package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docusafe/internal/auth"
	"docusafe/internal/logging"
	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/repository/kv"
	"docusafe/internal/storage"
	"docusafe/internal/store"
	"docusafe/internal/store/memory"
)

var testSecret = []byte("test-secret")

type harness struct {
	store      *memory.Store
	files      storage.Storage
	docRepo    repository.DocumentRepository
	userRepo   repository.UserRepository
	sessions   repository.SessionRepository
	logRepo    repository.LogRepository
	categories repository.CategoryRepository
	brandRepo  repository.BrandingRepository

	audit    ActivityLog
	auth     AuthService
	users    UserService
	docs     DocumentService
	category CategoryService
	branding BrandingService
	backup   BackupService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	log := logging.Discard()
	s := memory.New()

	h := &harness{
		store:      s,
		files:      storage.NewMemory(),
		docRepo:    kv.NewDocumentRepository(s, log),
		userRepo:   kv.NewUserRepository(s, log),
		sessions:   kv.NewSessionRepository(s, log),
		logRepo:    kv.NewLogRepository(s, log),
		categories: kv.NewCategoryRepository(s, log),
		brandRepo:  kv.NewBrandingRepository(s, log),
	}
	h.audit = NewActivityLog(h.logRepo, h.sessions)
	h.auth = NewAuthService(h.userRepo, h.sessions, h.audit, testSecret, time.Hour, log)
	h.users = NewUserService(h.userRepo, h.sessions, h.audit, log)
	h.docs = NewDocumentService(h.files, h.docRepo, h.categories, h.sessions, h.audit, log)
	h.category = NewCategoryService(h.categories, h.audit, log)
	h.branding = NewBrandingService(h.brandRepo, h.audit, log)
	h.backup = NewBackupService(h.userRepo, h.docRepo, h.brandRepo, h.categories, h.logRepo, h.sessions, h.audit, log)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, h.userRepo.ReplaceAll(ctx, []model.User{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: model.RoleAdmin, Status: model.StatusActive, Password: hash},
		{ID: "2", Name: "John Doe", Email: "johndoe@example.com", Role: model.RoleViewer, Status: model.StatusActive, Password: hash},
	}))
	require.NoError(t, h.categories.ReplaceAll(ctx, []string{"Letters", "Notifications", "Notesheets"}))
	require.NoError(t, h.docRepo.ReplaceAll(ctx, []model.Document{
		{ID: "DOC-001", Title: "Quarterly Financial Report Q2 2023", Category: "Letters", Date: "2023-06-30", Description: "Detailed financial report for the second quarter of 2023.", Keywords: "finance, report, q2"},
		{ID: "DOC-002", Title: "Office Closure Notice", Category: "Notifications", Date: "2023-07-15", Description: "Office will be closed for maintenance.", Keywords: "office, closure, maintenance"},
	}))
	return h
}

func (h *harness) login(t *testing.T, email string) *LoginResult {
	t.Helper()
	res, err := h.auth.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	return res
}

func (h *harness) snapshot(t *testing.T) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, k := range h.store.Keys() {
		raw, err := h.store.Get(context.Background(), k)
		require.NoError(t, err)
		out[k] = string(raw)
	}
	return out
}

func TestAuth_LoginAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res := h.login(t, "admin@example.com")
	assert.Equal(t, model.RoleAdmin, res.User.Role)
	assert.NotEmpty(t, res.Token)

	sess, err := h.sessions.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, model.RoleAdmin, sess.Role)

	raw, err := h.store.Get(ctx, store.KeySession)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	logs, err := h.audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionLoggedIn, logs[0].Action)
	assert.Equal(t, "Admin User", logs[0].UserName)
}

func TestAuth_LoginFailureLeavesStoreUnchanged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.snapshot(t)

	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"nobody@example.com", "password123"},
		{"", ""},
	} {
		res, err := h.auth.Login(ctx, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, res)
	}

	assert.Equal(t, before, h.snapshot(t))
}

func TestAuth_InactiveUserCannotLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u, err := h.userRepo.FindByID(ctx, "2")
	require.NoError(t, err)
	u.Status = model.StatusInactive
	require.NoError(t, h.userRepo.Update(ctx, *u))

	_, err = h.auth.Login(ctx, "johndoe@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_LegacyPlaintextPasswordIsUpgraded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.userRepo.Add(ctx, model.User{ID: "3", Name: "Old", Email: "old@example.com", Role: model.RoleViewer, Status: model.StatusActive, Password: "legacy-pass"}))

	_, err := h.auth.Login(ctx, "old@example.com", "legacy-pass")
	require.NoError(t, err)

	u, err := h.userRepo.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(u.Password))
	assert.True(t, auth.CheckPassword(u.Password, "legacy-pass"))
}

func TestAuth_VerifyAndLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.login(t, "admin@example.com")
	u, err := h.auth.Verify(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	// A new login replaces the session and invalidates older tokens.
	second := h.login(t, "johndoe@example.com")
	_, err = h.auth.Verify(ctx, first.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = h.auth.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, h.auth.Logout(ctx))
	_, err = h.auth.Verify(ctx, second.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = h.auth.Current(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	logs, err := h.audit.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionLoggedOut, logs[0].Action)
	assert.Equal(t, "John Doe", logs[0].UserName)

	assert.NoError(t, h.auth.Logout(ctx))
}

func TestAuth_ChangePassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.auth.ChangePassword(ctx, "password123", "newpass1"), ErrUnauthenticated)

	h.login(t, "admin@example.com")
	assert.ErrorIs(t, h.auth.ChangePassword(ctx, "wrong", "newpass1"), ErrInvalidCredentials)
	assert.ErrorIs(t, h.auth.ChangePassword(ctx, "password123", "short"), ErrValidation)
	require.NoError(t, h.auth.ChangePassword(ctx, "password123", "newpass1"))

	_, err := h.auth.Login(ctx, "admin@example.com", "newpass1")
	assert.NoError(t, err)
}

func TestUsers_AddDuplicateEmailNoMutation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com")

	before, err := h.store.Get(ctx, store.KeyUsers)
	require.NoError(t, err)

	_, err = h.users.Add(ctx, NewUserInput{Name: "Dup", Email: "admin@example.com", Password: "secret12", Role: model.RoleViewer})
	assert.ErrorIs(t, err, ErrEmailExists)

	after, err := h.store.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUsers_AddValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := map[string]NewUserInput{
		"missing name":  {Email: "a@example.com", Password: "secret12"},
		"bad email":     {Name: "A", Email: "not-an-email", Password: "secret12"},
		"short pass":    {Name: "A", Email: "a@example.com", Password: "123"},
		"unknown role":  {Name: "A", Email: "a@example.com", Password: "secret12", Role: "user"},
		"unknown state": {Name: "A", Email: "a@example.com", Password: "secret12", Status: "banned"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := h.users.Add(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	u, err := h.users.Add(ctx, NewUserInput{Name: "Op", Email: "op@example.com", Password: "secret12", Role: model.RoleDataEntryOperator})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, u.Status)

	stored, err := h.userRepo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(stored.Password))
}

func TestUsers_SelfRemovalRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com")

	before, err := h.store.Get(ctx, store.KeyUsers)
	require.NoError(t, err)

	assert.ErrorIs(t, h.users.Remove(ctx, "1"), ErrSelfAction)
	_, err = h.users.ToggleStatus(ctx, "1")
	assert.ErrorIs(t, err, ErrSelfAction)

	after, err := h.store.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	assert.ErrorIs(t, h.users.Remove(ctx, "404"), ErrNotFound)
	require.NoError(t, h.users.Remove(ctx, "2"))

	list, err := h.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUsers_ToggleStatusAndReset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com")

	u, err := h.users.ToggleStatus(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, u.Status)
	u, err = h.users.ToggleStatus(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, u.Status)

	require.NoError(t, h.users.ResetPassword(ctx, "2", "another1"))
	assert.ErrorIs(t, h.users.ResetPassword(ctx, "404", "another1"), ErrNotFound)

	_, err = h.auth.Login(ctx, "johndoe@example.com", "another1")
	assert.NoError(t, err)
}

func TestActivityLog_AnonymousIsNoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.audit.Append(ctx, "Anything", nil))
	_, err := h.store.Get(ctx, store.KeyLogs)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestActivityLog_CapsAt500NewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com")
	require.NoError(t, h.audit.Clear(ctx))

	for i := 1; i <= 501; i++ {
		require.NoError(t, h.audit.Append(ctx, fmt.Sprintf("action-%d", i), nil))
	}

	logs, err := h.audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, MaxLogEntries)
	assert.Equal(t, "action-501", logs[0].Action)
	assert.Equal(t, "action-2", logs[MaxLogEntries-1].Action)
	assert.Equal(t, "1", logs[0].UserID)
}

func TestDocuments_UploadAddsOneWithUniqueID(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "johndoe@example.com")

	before, err := h.docs.List(ctx)
	require.NoError(t, err)

	doc, err := h.docs.Upload(ctx, UploadInput{
		Title: "Memo", Category: "Notesheets", Description: "internal memo", Keywords: "memo",
		FileName: "../../etc/memo.txt", ContentType: "text/plain", Size: -1,
		Content: strings.NewReader("memo body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "memo.txt", doc.FileName)
	assert.EqualValues(t, 9, doc.Size)

	after, err := h.docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, doc.ID, after[0].ID)
	for _, d := range before {
		assert.NotEqual(t, d.ID, doc.ID)
	}

	rc, got, err := h.docs.Download(ctx, doc.ID)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "memo body", string(body))
	assert.Equal(t, doc.ID, got.ID)

	logs, err := h.audit.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionDocumentDownloaded, logs[0].Action)
	assert.Equal(t, ActionDocumentUploaded, logs[1].Action)
}

func TestDocuments_DeleteKeepsOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.docRepo.Add(ctx, model.Document{ID: "DOC-003", Title: "Third"}))

	require.NoError(t, h.docs.Delete(ctx, "DOC-001"))

	docs, err := h.docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "DOC-003", docs[0].ID)
	assert.Equal(t, "DOC-002", docs[1].ID)

	assert.ErrorIs(t, h.docs.Delete(ctx, "DOC-001"), ErrNotFound)
}

func TestDocuments_Search(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query SearchQuery
		want  []string
	}{
		{"general query matches keywords", SearchQuery{Q: "finance"}, []string{"DOC-001"}},
		{"general query is case-insensitive", SearchQuery{Q: "OFFICE"}, []string{"DOC-002"}},
		{"no match", SearchQuery{Q: "zebra"}, []string{}},
		{"empty query returns all", SearchQuery{}, []string{"DOC-001", "DOC-002"}},
		{"category equality", SearchQuery{Category: "Notifications"}, []string{"DOC-002"}},
		{"category is exact", SearchQuery{Category: "notifications"}, []string{}},
		{"date equality", SearchQuery{Date: "2023-06-30"}, []string{"DOC-001"}},
		{"filters AND together", SearchQuery{Q: "report", Category: "Notifications"}, []string{}},
		{"title substring", SearchQuery{Title: "quarterly"}, []string{"DOC-001"}},
		{"keywords substring", SearchQuery{Keywords: "closure"}, []string{"DOC-002"}},
		{"tab all", SearchQuery{Tab: "all"}, []string{"DOC-001", "DOC-002"}},
		{"tab category", SearchQuery{Tab: "letters"}, []string{"DOC-001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.docs.Search(ctx, tt.query)
			require.NoError(t, err)
			ids := []string{}
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDocuments_Stats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.docRepo.Add(ctx, model.Document{ID: "DOC-009", Category: "Archive"}))

	stats, err := h.docs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, []model.CategoryStat{
		{Category: "Letters", Count: 1},
		{Category: "Notifications", Count: 1},
		{Category: "Notesheets", Count: 0},
		{Category: "Archive", Count: 1},
	}, stats.Categories)
}

func TestDocuments_DownloadWithoutFile(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.docs.Download(context.Background(), "DOC-001")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestDocuments_Forward(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com")

	draft, err := h.docs.Forward(ctx, "DOC-001", ForwardInput{RecipientEmail: "boss@example.com", Message: "Please review."})
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", draft.To)
	assert.Equal(t, "Fwd: Quarterly Financial Report Q2 2023", draft.Subject)
	assert.True(t, strings.HasPrefix(draft.Body, "Hello,"))
	assert.Contains(t, draft.Body, `"Quarterly Financial Report Q2 2023"`)
	assert.Contains(t, draft.Body, "Detailed financial report")
	assert.Contains(t, draft.Body, "Please review.")
	assert.True(t, strings.HasSuffix(draft.Body, "Best regards,\nAdmin User\n"))

	_, err = h.docs.Forward(ctx, "DOC-001", ForwardInput{RecipientEmail: "nope"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = h.docs.Forward(ctx, "DOC-404", ForwardInput{RecipientEmail: "boss@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)

	logs, err := h.audit.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionDocumentForwarded, logs[0].Action)
}

func TestCategories(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.category.Add(ctx, "  "), ErrValidation)
	assert.ErrorIs(t, h.category.Add(ctx, "Letters"), ErrCategoryExists)
	require.NoError(t, h.category.Add(ctx, " Memos "))
	assert.ErrorIs(t, h.category.Remove(ctx, "Nope"), ErrNotFound)

	names, err := h.category.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Letters", "Notifications", "Notesheets", "Memos"}, names)
}

func TestBranding(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got, err := h.branding.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDepartmentName, got.DepartmentName)

	bad := "javascript:alert(1)"
	_, err = h.branding.Update(ctx, model.BrandingPatch{LogoURL: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	name, logo := " Records Office ", "https://example.com/logo.png"
	got, err = h.branding.Update(ctx, model.BrandingPatch{DepartmentName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Records Office", got.DepartmentName)

	got, err = h.branding.Update(ctx, model.BrandingPatch{LogoURL: &logo})
	require.NoError(t, err)
	assert.Equal(t, model.BrandingSettings{DepartmentName: "Records Office", LogoURL: logo}, got)
}

func TestBackup_RoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	name := "Records Office"
	_, err := h.branding.Update(ctx, model.BrandingPatch{DepartmentName: &name})
	require.NoError(t, err)

	b, err := h.backup.Backup(ctx)
	require.NoError(t, err)
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	// Mutate everything the backup covers.
	require.NoError(t, h.docRepo.ReplaceAll(ctx, nil))
	require.NoError(t, h.userRepo.ReplaceAll(ctx, nil))
	require.NoError(t, h.categories.ReplaceAll(ctx, []string{"Other"}))
	require.NoError(t, h.brandRepo.Set(ctx, model.BrandingSettings{}))

	require.NoError(t, h.backup.Restore(ctx, raw))

	restored, err := h.backup.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.Users, restored.Users)
	assert.Equal(t, b.Documents, restored.Documents)
	assert.Equal(t, b.Categories, restored.Categories)
	assert.Equal(t, b.Branding, restored.Branding)
}

func TestBackup_RestoreRejectsIncompleteFile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.snapshot(t)

	tests := map[string]string{
		"not json":         `{`,
		"missing users":    `{"documents":[],"branding":{},"categories":[]}`,
		"null categories":  `{"users":[],"documents":[],"branding":{},"categories":null}`,
		"wrong field type": `{"users":{},"documents":[],"branding":{},"categories":[]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			err := h.backup.Restore(ctx, []byte(raw))
			assert.ErrorIs(t, err, ErrInvalidBackup)
		})
	}
	assert.Equal(t, before, h.snapshot(t))
}

func TestBackup_RestoreDefaultsLogs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.backup.Restore(ctx, []byte(`{"users":[],"documents":[],"branding":{"departmentName":"X"},"categories":["A"]}`)))

	logs, err := h.logRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
	cats, err := h.categories.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, cats)
}

func TestBackup_RestoreRejectsBrokenInvariants(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.snapshot(t)

	const rest = `"branding":{},"categories":["Letters"]`
	tests := map[string]string{
		"duplicate email ignoring case": `{"users":[{"id":"a","email":"dup@example.com","role":"admin","status":"active"},{"id":"b","email":"DUP@example.com","role":"viewer","status":"active"}],"documents":[],` + rest + `}`,
		"duplicate user id":             `{"users":[{"id":"a","email":"a@example.com","role":"admin"},{"id":"a","email":"b@example.com","role":"viewer"}],"documents":[],` + rest + `}`,
		"unknown role":                  `{"users":[{"id":"a","email":"a@example.com","role":"superuser","status":"active"}],"documents":[],` + rest + `}`,
		"unknown status":                `{"users":[{"id":"a","email":"a@example.com","role":"admin","status":"locked"}],"documents":[],` + rest + `}`,
		"duplicate document id":         `{"users":[],"documents":[{"id":"D1","title":"One"},{"id":"D1","title":"Two"}],` + rest + `}`,
		"duplicate category":            `{"users":[],"documents":[],"branding":{},"categories":["Letters","letters"]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			err := h.backup.Restore(ctx, []byte(raw))
			assert.ErrorIs(t, err, ErrInvalidBackup)
		})
	}
	assert.Equal(t, before, h.snapshot(t))
}

func TestBackup_RestoreMissingStatusDefaultsToActive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.backup.Restore(ctx, []byte(`{"users":[{"id":"a","name":"A","email":"a@example.com","role":"viewer"}],"documents":[],"branding":{},"categories":[]}`)))

	u, err := h.userRepo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, u.Status)
}

func TestBackup_RestoreReconcilesSession(t *testing.T) {
	const suffix = `],"documents":[],"branding":{},"categories":[]}`
	tests := []struct {
		name     string
		users    string
		wantUser *model.PublicUser
	}{
		{
			name:  "user gone",
			users: `{"id":"a","name":"A","email":"a@example.com","role":"admin","status":"active"}`,
		},
		{
			name:  "user deactivated",
			users: `{"id":"1","name":"Admin User","email":"admin@example.com","role":"admin","status":"inactive"}`,
		},
		{
			name:  "role changed",
			users: `{"id":"1","name":"Admin User","email":"admin@example.com","role":"viewer","status":"active"}`,
		},
		{
			name:     "profile refreshed",
			users:    `{"id":"1","name":"Chief Admin","email":"chief@example.com","role":"admin","status":"active"}`,
			wantUser: &model.PublicUser{ID: "1", Name: "Chief Admin", Email: "chief@example.com", Role: model.RoleAdmin, Status: model.StatusActive},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			res := h.login(t, "admin@example.com")

			require.NoError(t, h.backup.Restore(ctx, []byte(`{"users":[`+tc.users+suffix)))

			user, err := h.auth.Verify(ctx, res.Token)
			if tc.wantUser == nil {
				assert.ErrorIs(t, err, ErrUnauthenticated)
				sess, err := h.sessions.Get(ctx)
				require.NoError(t, err)
				assert.Nil(t, sess)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantUser, user)
		})
	}
}
