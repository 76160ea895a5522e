package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Valid(t *testing.T) {
	for _, c := range []Category{CategoryBusinessUpdate, CategoryMarketing, CategoryQuotationUpdate, CategoryAIInsight} {
		assert.True(t, c.Valid(), "category %q", c)
	}

	assert.False(t, Category("").Valid())
	assert.False(t, Category("weather").Valid())
	assert.False(t, Category("Business_Update").Valid(), "category match is case sensitive")
}

func TestPriority_Valid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		assert.True(t, p.Valid(), "priority %q", p)
	}

	assert.False(t, Priority("").Valid())
	assert.False(t, Priority("critical").Valid())
}

func TestEventKind_Valid(t *testing.T) {
	for _, k := range []EventKind{EventDelivered, EventViewed, EventClicked, EventDismissed} {
		assert.True(t, k.Valid(), "kind %q", k)
	}

	assert.False(t, EventKind("").Valid())
	assert.False(t, EventKind("opened").Valid())
}
