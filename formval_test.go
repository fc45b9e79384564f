package formval_test

import (
	"testing"
	"testing/fstest"
	"time"

	formval "github.com/goliatone/go-formval"
	"github.com/goliatone/go-formval/pkg/formstate"
	"github.com/goliatone/go-formval/pkg/realtime"
	"github.com/goliatone/go-formval/pkg/schema"
)

const onboardingForm = `
id: onboarding
title: Onboarding
sections:
  - id: profile
    fields:
      - name: username
        label: Username
        type: text
        validation:
          required: true
          minLength: 3
      - name: role
        type: select
        options:
          - { label: "Engineer", value: "engineer" }
          - { label: "Sales", value: "sales" }
      - name: quota
        label: Quota
        type: number
        conditional:
          field: role
          operator: equals
          value: sales
        validation:
          required: true
          min: 1
`

func loadOnboarding(t *testing.T) formval.FormSchema {
	t.Helper()
	fsys := fstest.MapFS{
		"onboarding.yaml": {Data: []byte(onboardingForm)},
	}
	form, err := formval.LoadForm(schema.SourceFromFS("onboarding.yaml"), fsys)
	if err != nil {
		t.Fatalf("LoadForm returned error: %v", err)
	}
	return form
}

func TestLoadAndValidateRoundTrip(t *testing.T) {
	t.Parallel()

	form := loadOnboarding(t)

	errs := formval.ValidateAll(form, map[string]any{
		"username": "gopher",
		"role":     "engineer",
	})
	if len(errs) != 0 {
		t.Fatalf("engineer without quota should be valid, got %+v", errs)
	}

	errs = formval.ValidateAll(form, map[string]any{
		"username": "gopher",
		"role":     "sales",
	})
	if len(errs) != 1 || errs[0].Field != "quota" {
		t.Fatalf("sales without quota should fail on quota, got %+v", errs)
	}
}

func TestEvaluateVisible(t *testing.T) {
	t.Parallel()

	form := loadOnboarding(t)
	quota, _ := form.Field("quota")

	if formval.EvaluateVisible(quota.Conditional, map[string]any{"role": "engineer"}) {
		t.Fatalf("quota should be invisible for engineers")
	}
	if !formval.EvaluateVisible(quota.Conditional, map[string]any{"role": "sales"}) {
		t.Fatalf("quota should be visible for sales")
	}
}

func TestControllerWiredToStore(t *testing.T) {
	t.Parallel()

	form := loadOnboarding(t)
	store := formstate.New(form)
	username, _ := form.Field("username")

	c := formval.NewController(username, nil,
		realtime.WithDebounce(10*time.Millisecond),
	)
	defer c.Close()

	store.Subscribe(func(name string, value any) {
		if name == username.Name {
			c.OnChange(value)
		}
	})

	store.Set("username", "ab")
	c.OnBlur()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.State().Status == realtime.StatusError {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	state := c.State()
	if state.Status != realtime.StatusError || state.Error == nil {
		t.Fatalf("short username should produce an error state, got %+v", state)
	}

	store.Set("username", "gopher")
	c.TriggerValidate()

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.State().Status == realtime.StatusValid {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	if state := c.State(); state.Status != realtime.StatusValid {
		t.Fatalf("valid username should produce a valid state, got %+v", state)
	}
}
