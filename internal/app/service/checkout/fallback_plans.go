package checkout

import "github.com/rekoonads/sweven-games-gateway/pkg/types"

// fallbackPlans is served when the backend plan list is unreachable so the
// subscription page is never empty. Prices are in INR paise-free rupees,
// matching the backend catalog.
var fallbackPlans = []*types.SubscriptionPlan{
	{
		PlanID:      "starter-trial",
		Name:        "⚡ Starter Trial",
		Price:       299,
		Hours:       5,
		Validity:    3,
		TimeWindow:  "9 AM - 9 PM",
		Description: "Perfect for trying out",
		Features: []string{
			"5 hours of gaming",
			"3 days validity",
			"Play games you own from library",
			"1080p streaming quality",
			"Email support",
		},
		IsActive: true,
	},
	{
		PlanID:      "weekend-gamer",
		Name:        "🎮 Weekend Gamer",
		Price:       799,
		Hours:       20,
		Validity:    7,
		TimeWindow:  "Weekends Only",
		Description: "For weekend warriors",
		Features: []string{
			"20 hours of gaming",
			"7 days validity",
			"Play games you own from library",
			"Weekend access",
			"1080p streaming quality",
			"Priority support",
		},
		IsActive: true,
	},
	{
		PlanID:      "starter-plan",
		Name:        "🚀 Starter Plan",
		Price:       1499,
		Hours:       100,
		Validity:    28,
		Description: "Most Popular Choice",
		Features: []string{
			"100 hours of gaming",
			"28 days validity",
			"Play games you own from library",
			"24/7 access",
			"1080p streaming quality",
			"Priority support",
			"Cloud saves",
		},
		IsActive: true,
	},
	{
		PlanID:      "arena-pass",
		Name:        "🏆 Arena Pass",
		Price:       2499,
		Hours:       100,
		Validity:    28,
		Description: "Premium experience",
		Features: []string{
			"100 hours of gaming",
			"28 days validity",
			"Play games you own from library",
			"24/7 access",
			"4K streaming quality",
			"Dedicated support",
			"Cloud saves",
			"Exclusive game access",
		},
		IsActive: true,
	},
	{
		PlanID:      "pro-plus",
		Name:        "💎 Pro Plus",
		Price:       3499,
		Hours:       150,
		Validity:    28,
		Description: "Ultimate gaming",
		Features: []string{
			"150 hours of gaming",
			"28 days validity",
			"Play games you own from library",
			"24/7 access",
			"4K streaming quality",
			"VIP support",
			"Cloud saves",
			"Exclusive game access",
			"Ray tracing enabled",
		},
		IsActive: true,
	},
}

// FallbackPlans returns a copy of the built-in plan catalog.
func FallbackPlans() []*types.SubscriptionPlan {
	out := make([]*types.SubscriptionPlan, len(fallbackPlans))
	copy(out, fallbackPlans)
	return out
}
