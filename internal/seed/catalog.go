package seed

import "github.com/grambazaar/storefront-backend/pkg/enums"

type accountSeed struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     enums.UserRole
}

type productSeed struct {
	Name     string
	Category string
	Price    string // rupees
	Stock    int
	Bengali  string
}

type shopSeed struct {
	Name        string
	Category    string
	Description string
	Street      string
	City        string
	Pincode     string
	Phone       string
	Email       string
	Lat, Lng    float64
	Rating      float64
	RadiusKm    float64
	Products    []productSeed
}

var demoAccounts = []accountSeed{
	{Name: "Admin User", Email: "admin@grambazaar.com", Password: "admin123", Phone: "9876543210", Role: enums.UserRoleAdmin},
	{Name: "Regular User", Email: "user@grambazaar.com", Password: "user1234", Phone: "9876543211", Role: enums.UserRoleCustomer},
}

// Demo storefronts around Kolkata.
var demoShops = []shopSeed{
	{
		Name:        "Saha Kirana Store",
		Category:    "Kirana",
		Description: "Your trusted neighborhood grocery store with fresh daily essentials",
		Street:      "Main Bazaar, Sonarpur",
		City:        "Kolkata",
		Pincode:     "700150",
		Phone:       "9876543210",
		Email:       "saha.kirana@example.com",
		Lat:         22.4425,
		Lng:         88.431,
		Rating:      4.5,
		RadiusKm:    15,
		Products: []productSeed{
			{Name: "Atta (Wheat Flour) 5kg", Category: "Groceries", Price: "250", Stock: 50, Bengali: "আটা ৫ কেজি"},
			{Name: "Sugar 1kg", Category: "Groceries", Price: "60", Stock: 80, Bengali: "চিনি ১ কেজি"},
			{Name: "Rice (Basmati) 10kg", Category: "Groceries", Price: "800", Stock: 30, Bengali: "বাসমতী চাল ১০ কেজি"},
			{Name: "Cooking Oil 1L", Category: "Groceries", Price: "150", Stock: 60, Bengali: "রান্নার তেল ১ লিটার"},
			{Name: "Dal (Moong) 1kg", Category: "Groceries", Price: "120", Stock: 40, Bengali: "মুগ ডাল ১ কেজি"},
		},
	},
	{
		Name:        "Fresh Harvest Vegetables",
		Category:    "Vegetables",
		Description: "Farm-fresh vegetables and fruits delivered daily",
		Street:      "Market Road, Baruipur",
		City:        "Kolkata",
		Pincode:     "700144",
		Phone:       "9876543211",
		Email:       "freshharvest@example.com",
		Lat:         22.3573,
		Lng:         88.434,
		Rating:      4.7,
		RadiusKm:    12,
		Products: []productSeed{
			{Name: "Tomato 1kg", Category: "Vegetables", Price: "40", Stock: 100, Bengali: "টমেটো ১ কেজি"},
			{Name: "Potato 5kg", Category: "Vegetables", Price: "150", Stock: 80, Bengali: "আলু ৫ কেজি"},
			{Name: "Onion 2kg", Category: "Vegetables", Price: "80", Stock: 70, Bengali: "পেঁয়াজ ২ কেজি"},
			{Name: "Banana (Dozen)", Category: "Fruits", Price: "60", Stock: 50, Bengali: "কলা (ডজন)"},
			{Name: "Apple 1kg", Category: "Fruits", Price: "180", Stock: 40, Bengali: "আপেল ১ কেজি"},
			{Name: "Cauliflower 1pc", Category: "Vegetables", Price: "35", Stock: 60, Bengali: "ফুলকপি ১টি"},
		},
	},
	{
		Name:        "Milk & More Dairy",
		Category:    "Dairy",
		Description: "Pure and fresh dairy products from local farms",
		Street:      "Station Para, Diamond Harbour",
		City:        "Kolkata",
		Pincode:     "743331",
		Phone:       "9876543212",
		Email:       "milkmore@example.com",
		Lat:         22.191,
		Lng:         88.1905,
		Rating:      4.6,
		RadiusKm:    10,
		Products: []productSeed{
			{Name: "Fresh Milk 1L", Category: "Dairy", Price: "60", Stock: 100, Bengali: "তাজা দুধ ১ লিটার"},
			{Name: "Curd (Doi) 500g", Category: "Dairy", Price: "40", Stock: 50, Bengali: "দই ৫০০ গ্রাম"},
			{Name: "Paneer 200g", Category: "Dairy", Price: "80", Stock: 30, Bengali: "পনির ২০০ গ্রাম"},
			{Name: "Butter 100g", Category: "Dairy", Price: "50", Stock: 40, Bengali: "মাখন ১০০ গ্রাম"},
			{Name: "Ghee 500ml", Category: "Dairy", Price: "400", Stock: 25, Bengali: "ঘি ৫০০ মিলি"},
		},
	},
	{
		Name:        "Golden Crust Bakery",
		Category:    "Bakery",
		Description: "Fresh breads, cakes and snacks baked daily",
		Street:      "College Street, Barasat",
		City:        "Kolkata",
		Pincode:     "700124",
		Phone:       "9876543213",
		Email:       "goldencrust@example.com",
		Lat:         22.7229,
		Lng:         88.4805,
		Rating:      4.4,
		RadiusKm:    8,
		Products: []productSeed{
			{Name: "White Bread (Large)", Category: "Bakery", Price: "45", Stock: 50, Bengali: "সাদা রুটি (বড়)"},
			{Name: "Brown Bread (Large)", Category: "Bakery", Price: "55", Stock: 40, Bengali: "বাদামী রুটি (বড়)"},
			{Name: "Chocolate Cake 500g", Category: "Bakery", Price: "300", Stock: 20, Bengali: "চকলেট কেক ৫০০ গ্রাম"},
			{Name: "Cookies (Mixed) 200g", Category: "Bakery", Price: "80", Stock: 60, Bengali: "মিশ্র কুকিজ ২০০ গ্রাম"},
			{Name: "Puff Pastry (6pc)", Category: "Bakery", Price: "120", Stock: 35, Bengali: "পাফ পেস্ট্রি (৬টি)"},
		},
	},
	{
		Name:        "Ocean Fresh Fish Market",
		Category:    "Fish & Meat",
		Description: "Fresh fish and quality meat daily",
		Street:      "Fish Market, Budge Budge",
		City:        "Kolkata",
		Pincode:     "700137",
		Phone:       "9876543214",
		Email:       "oceanfresh@example.com",
		Lat:         22.48,
		Lng:         88.17,
		Rating:      4.8,
		RadiusKm:    10,
		Products: []productSeed{
			{Name: "Rohu Fish 1kg", Category: "Fish", Price: "320", Stock: 40, Bengali: "রুই মাছ ১ কেজি"},
			{Name: "Hilsa Fish 1kg", Category: "Fish", Price: "800", Stock: 15, Bengali: "ইলিশ মাছ ১ কেজি"},
			{Name: "Chicken (Whole) 1kg", Category: "Meat", Price: "250", Stock: 50, Bengali: "মুরগি (সম্পূর্ণ) ১ কেজি"},
			{Name: "Mutton 1kg", Category: "Meat", Price: "650", Stock: 20, Bengali: "মাংস ১ কেজি"},
			{Name: "Prawns (Large) 500g", Category: "Fish", Price: "450", Stock: 30, Bengali: "বড় চিংড়ি ৫০০ গ্রাম"},
		},
	},
	{
		Name:        "Bengal Sweets Corner",
		Category:    "Sweets",
		Description: "Authentic Bengali sweets and savory snacks",
		Street:      "Thakurpukur Road",
		City:        "Kolkata",
		Pincode:     "700063",
		Phone:       "9876543215",
		Email:       "bengalsweets@example.com",
		Lat:         22.462,
		Lng:         88.306,
		Rating:      4.9,
		RadiusKm:    12,
		Products: []productSeed{
			{Name: "Rasgulla (12pc)", Category: "Sweets", Price: "150", Stock: 50, Bengali: "রসগোল্লা (১২টি)"},
			{Name: "Sandesh 500g", Category: "Sweets", Price: "200", Stock: 40, Bengali: "সন্দেশ ৫০০ গ্রাম"},
			{Name: "Mishti Doi 250g", Category: "Sweets", Price: "60", Stock: 60, Bengali: "মিষ্টি দই ২৫০ গ্রাম"},
			{Name: "Singara (6pc)", Category: "Snacks", Price: "40", Stock: 80, Bengali: "সিঙ্গাড়া (৬টি)"},
			{Name: "Jilipi 250g", Category: "Sweets", Price: "80", Stock: 45, Bengali: "জিলিপি ২৫০ গ্রাম"},
			{Name: "Luchi (10pc)", Category: "Snacks", Price: "50", Stock: 70, Bengali: "লুচি (১০টি)"},
		},
	},
	{
		Name:        "HealthPlus Pharmacy",
		Category:    "Medicine",
		Description: "Trusted pharmacy with medicines and health products",
		Street:      "New Market Area, Garia",
		City:        "Kolkata",
		Pincode:     "700084",
		Phone:       "9876543216",
		Email:       "healthplus@example.com",
		Lat:         22.463,
		Lng:         88.394,
		Rating:      4.5,
		RadiusKm:    15,
		Products: []productSeed{
			{Name: "Paracetamol 500mg (10 Tablets)", Category: "Medicine", Price: "20", Stock: 200, Bengali: "প্যারাসিটামল ৫০০ মিগ্রা (১০ ট্যাবলেট)"},
			{Name: "Hand Sanitizer 200ml", Category: "Healthcare", Price: "80", Stock: 100, Bengali: "হ্যান্ড স্যানিটাইজার ২০০ মিলি"},
			{Name: "Face Mask (Pack of 10)", Category: "Healthcare", Price: "50", Stock: 150, Bengali: "ফেস মাস্ক (১০টির প্যাক)"},
			{Name: "Vitamin C Tablets (30 Count)", Category: "Supplements", Price: "120", Stock: 80, Bengali: "ভিটামিন সি ট্যাবলেট (৩০টি)"},
			{Name: "First Aid Kit", Category: "Healthcare", Price: "350", Stock: 40, Bengali: "প্রাথমিক চিকিৎসা কিট"},
		},
	},
	{
		Name:        "TechWorld Electronics",
		Category:    "Electronics",
		Description: "Mobile phones, accessories and electronics",
		Street:      "Electronics Hub, Behala",
		City:        "Kolkata",
		Pincode:     "700034",
		Phone:       "9876543217",
		Email:       "techworld@example.com",
		Lat:         22.498,
		Lng:         88.31,
		Rating:      4.3,
		RadiusKm:    20,
		Products: []productSeed{
			{Name: "Mobile Charger (Type-C)", Category: "Accessories", Price: "250", Stock: 100, Bengali: "মোবাইল চার্জার (টাইপ-সি)"},
			{Name: "Earphones (Wired)", Category: "Accessories", Price: "200", Stock: 80, Bengali: "ইয়ারফোন (তারযুক্ত)"},
			{Name: "Power Bank 10000mAh", Category: "Accessories", Price: "800", Stock: 50, Bengali: "পাওয়ার ব্যাংক ১০০০০ এমএএইচ"},
			{Name: "Phone Cover (Universal)", Category: "Accessories", Price: "150", Stock: 120, Bengali: "ফোন কভার (ইউনিভার্সাল)"},
			{Name: "Bluetooth Speaker", Category: "Electronics", Price: "1200", Stock: 30, Bengali: "ব্লুটুথ স্পিকার"},
		},
	},
}
