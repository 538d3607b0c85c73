package tagdict

// Builtin returns the compiled-in default dictionary. It is used when no
// dictionary directory is configured and as the seed for `import --init`.
func Builtin() *Dictionary {
	d, err := Compile(builtinManifest(), BuiltinFile())
	if err != nil {
		// The builtin dataset is compiled into the binary; failing to
		// compile it is a bug, not a runtime condition.
		panic("tagdict: builtin dictionary invalid: " + err.Error())
	}
	return d
}

func builtinManifest() *Manifest {
	return &Manifest{
		ID:      "osm-core",
		Version: "1.0",
		Source:  "built-in",
		License: "ODbL",
		Format:  FormatSpec{Normalize: "lowercase_ascii"},
	}
}

// BuiltinFile returns the default dictionary content. Callers must not
// modify the returned structure's shared slices after compiling.
func BuiltinFile() *File {
	return &File{
		Rules: []RuleSpec{
			// Primary feature phrases.
			{Phrase: "restaurant", Tags: map[string]string{"amenity": "restaurant"}, Confidence: 0.9},
			{Phrase: "italian restaurant", Tags: map[string]string{"amenity": "restaurant", "cuisine": "italian"}, Confidence: 0.95},
			{Phrase: "chinese restaurant", Tags: map[string]string{"amenity": "restaurant", "cuisine": "chinese"}, Confidence: 0.95},
			{Phrase: "pizzeria", Tags: map[string]string{"amenity": "restaurant", "cuisine": "pizza"}, Confidence: 0.9},
			{Phrase: "fast food", Tags: map[string]string{"amenity": "fast_food"}, Confidence: 0.9},
			{Phrase: "food", Tags: map[string]string{"amenity": "restaurant"}, Confidence: 0.3},
			{Phrase: "cafe", Tags: map[string]string{"amenity": "cafe"}, Confidence: 0.9},
			{Phrase: "coffee shop", Tags: map[string]string{"amenity": "cafe"}, Confidence: 0.9},
			{Phrase: "pub", Tags: map[string]string{"amenity": "pub"}, Confidence: 0.85},
			{Phrase: "bar", Tags: map[string]string{"amenity": "bar"}, Confidence: 0.8},
			{Phrase: "school", Tags: map[string]string{"amenity": "school"}, Confidence: 0.85},
			{Phrase: "hospital", Tags: map[string]string{"amenity": "hospital"}, Confidence: 0.9},
			{Phrase: "pharmacy", Tags: map[string]string{"amenity": "pharmacy"}, Confidence: 0.9},
			{Phrase: "chemist", Tags: map[string]string{"amenity": "pharmacy"}, Confidence: 0.7},
			{Phrase: "bank", Tags: map[string]string{"amenity": "bank"}, Confidence: 0.85},
			{Phrase: "gas station", Tags: map[string]string{"amenity": "fuel"}, Confidence: 0.9},
			{Phrase: "petrol station", Tags: map[string]string{"amenity": "fuel"}, Confidence: 0.9},
			{Phrase: "fuel station", Tags: map[string]string{"amenity": "fuel"}, Confidence: 0.85},
			{Phrase: "charging station", Tags: map[string]string{"amenity": "charging_station"}, Confidence: 0.85},
			{Phrase: "parking", Tags: map[string]string{"amenity": "parking"}, Confidence: 0.8},
			{Phrase: "supermarket", Tags: map[string]string{"shop": "supermarket"}, Confidence: 0.9},
			{Phrase: "grocery store", Tags: map[string]string{"shop": "supermarket"}, Confidence: 0.85},
			{Phrase: "convenience store", Tags: map[string]string{"shop": "convenience"}, Confidence: 0.9},
			{Phrase: "bakery", Tags: map[string]string{"shop": "bakery"}, Confidence: 0.9},
			{Phrase: "butcher", Tags: map[string]string{"shop": "butcher"}, Confidence: 0.9},
			{Phrase: "fish counter", Tags: map[string]string{"shop": "seafood"}, Confidence: 0.75},
			{Phrase: "clothing store", Tags: map[string]string{"shop": "clothes"}, Confidence: 0.85},
			{Phrase: "electronics store", Tags: map[string]string{"shop": "electronics"}, Confidence: 0.85},
			{Phrase: "hotel", Tags: map[string]string{"tourism": "hotel"}, Confidence: 0.9},
			{Phrase: "hostel", Tags: map[string]string{"tourism": "hostel"}, Confidence: 0.9},
			{Phrase: "museum", Tags: map[string]string{"tourism": "museum"}, Confidence: 0.9},
			{Phrase: "tourist information", Tags: map[string]string{"tourism": "information"}, Confidence: 0.85},
			{Phrase: "bus stop", Tags: map[string]string{"highway": "bus_stop"}, Confidence: 0.9, ElementTypes: []string{"node"}},
			{Phrase: "traffic lights", Tags: map[string]string{"highway": "traffic_signals"}, Confidence: 0.85, ElementTypes: []string{"node"}},
			{Phrase: "pedestrian crossing", Tags: map[string]string{"highway": "crossing"}, Confidence: 0.85, ElementTypes: []string{"node"}},
			{Phrase: "residential road", Tags: map[string]string{"highway": "residential"}, Confidence: 0.85, ElementTypes: []string{"way"}},
			{Phrase: "playground", Tags: map[string]string{"leisure": "playground"}, Confidence: 0.9},
			{Phrase: "park", Tags: map[string]string{"leisure": "park"}, Confidence: 0.7},
			{Phrase: "apartment building", Tags: map[string]string{"building": "apartments"}, Confidence: 0.85},
			{Phrase: "office building", Tags: map[string]string{"building": "office"}, Confidence: 0.85},

			// Attribute phrases.
			{Phrase: "wifi", Tags: map[string]string{"internet_access": "wlan"}, Confidence: 0.7},
			{Phrase: "wi-fi", Tags: map[string]string{"internet_access": "wlan"}, Confidence: 0.7},
			{Phrase: "wireless internet", Tags: map[string]string{"internet_access": "wlan"}, Confidence: 0.65},
			{Phrase: "internet access", Tags: map[string]string{"internet_access": "yes"}, Confidence: 0.6},
			{Phrase: "24 hours", Tags: map[string]string{"opening_hours": "24/7"}, Confidence: 0.8},
			{Phrase: "24 hour", Tags: map[string]string{"opening_hours": "24/7"}, Confidence: 0.8},
			{Phrase: "24/7", Tags: map[string]string{"opening_hours": "24/7"}, Confidence: 0.85},
			{Phrase: "open around the clock", Tags: map[string]string{"opening_hours": "24/7"}, Confidence: 0.7},
			{Phrase: "wheelchair accessible", Tags: map[string]string{"wheelchair": "yes"}, Confidence: 0.8},
			{Phrase: "wheelchair", Tags: map[string]string{"wheelchair": "yes"}, Confidence: 0.6},
			{Phrase: "outdoor seating", Tags: map[string]string{"outdoor_seating": "yes"}, Confidence: 0.7},
			{Phrase: "terrace", Tags: map[string]string{"outdoor_seating": "yes"}, Confidence: 0.5},
			{Phrase: "takeaway", Tags: map[string]string{"takeaway": "yes"}, Confidence: 0.7},
			{Phrase: "take away", Tags: map[string]string{"takeaway": "yes"}, Confidence: 0.7},
			{Phrase: "drive through", Tags: map[string]string{"drive_through": "yes"}, Confidence: 0.75},
			{Phrase: "drive-thru", Tags: map[string]string{"drive_through": "yes"}, Confidence: 0.75},
			{Phrase: "vegan", Tags: map[string]string{"diet:vegan": "yes"}, Confidence: 0.7},
			{Phrase: "vegetarian", Tags: map[string]string{"diet:vegetarian": "yes"}, Confidence: 0.7},
			{Phrase: "atm", Tags: map[string]string{"atm": "yes"}, Confidence: 0.6},
			{Phrase: "ev charging", Tags: map[string]string{"socket:type2": "yes"}, Confidence: 0.5},
		},
		Deprecations: []DeprecationSpec{
			{Key: "shop", Value: "fishmonger", Replacement: map[string]string{"shop": "seafood"}},
			{Key: "landuse", Value: "farm", Replacement: map[string]string{"landuse": "farmland"}},
			{Key: "amenity", Value: "ev_charging", Replacement: map[string]string{"amenity": "charging_station"}},
			{Key: "highway", Value: "ford", Replacement: map[string]string{"ford": "yes"}},
			{Key: "amenity", Value: "nursing_home", Replacement: map[string]string{"amenity": "social_facility", "social_facility": "nursing_home"}},
		},
		Groups: []GroupSpec{
			{ID: "amenity", Keys: []string{"amenity"}},
			{ID: "shop", Keys: []string{"shop"}},
			{ID: "tourism", Keys: []string{"tourism"}},
			{ID: "highway", Keys: []string{"highway"}},
			{ID: "building", Keys: []string{"building"}},
			{ID: "leisure", Keys: []string{"leisure"}},
			{ID: "landuse", Keys: []string{"landuse"}},
		},
		AllowedCombinations: [][]string{
			{"building", "shop"},
			{"building", "amenity"},
			{"building", "tourism"},
		},
		Recommended: []RecommendedSpec{
			{Key: "amenity", Value: "restaurant", Suggest: []CoTagGuide{
				{Key: "cuisine", Confidence: 0.85, Reason: "restaurants usually specify a cuisine", Required: true},
				{Key: "opening_hours", Confidence: 0.7, Reason: "operating hours help visitors"},
				{Key: "phone", Confidence: 0.6, Reason: "contact number for reservations"},
				{Key: "website", Confidence: 0.55, Reason: "menu and booking information"},
				{Key: "outdoor_seating", Confidence: 0.5, Reason: "many restaurants offer outdoor seating"},
				{Key: "wheelchair", Confidence: 0.45, Reason: "accessibility information"},
			}},
			{Key: "amenity", Value: "fast_food", Suggest: []CoTagGuide{
				{Key: "cuisine", Confidence: 0.8, Reason: "fast food outlets usually specify a cuisine", Required: true},
				{Key: "opening_hours", Confidence: 0.7, Reason: "operating hours help visitors"},
				{Key: "takeaway", Value: "yes", Confidence: 0.6, Reason: "most fast food offers takeaway"},
				{Key: "drive_through", Confidence: 0.5, Reason: "drive-through availability"},
			}},
			{Key: "amenity", Value: "cafe", Suggest: []CoTagGuide{
				{Key: "opening_hours", Confidence: 0.75, Reason: "operating hours help visitors"},
				{Key: "internet_access", Confidence: 0.6, Reason: "wifi availability is often asked about"},
				{Key: "outdoor_seating", Confidence: 0.5, Reason: "many cafes offer outdoor seating"},
				{Key: "cuisine", Confidence: 0.45, Reason: "e.g. cuisine=coffee_shop"},
			}},
			{Key: "amenity", Value: "fuel", Suggest: []CoTagGuide{
				{Key: "fuel:diesel", Value: "yes", Confidence: 0.8, Reason: "fuel stations usually list fuel types"},
				{Key: "fuel:octane_95", Value: "yes", Confidence: 0.7, Reason: "fuel stations usually list fuel types"},
				{Key: "opening_hours", Confidence: 0.65, Reason: "operating hours help drivers"},
				{Key: "compressed_air", Confidence: 0.4, Reason: "tyre inflation availability"},
			}},
			{Key: "amenity", Value: "school", Suggest: []CoTagGuide{
				{Key: "wheelchair", Confidence: 0.7, Reason: "accessibility matters for public buildings"},
				{Key: "phone", Confidence: 0.6, Reason: "contact number"},
				{Key: "website", Confidence: 0.55, Reason: "school information"},
			}},
			{Key: "amenity", Value: "hospital", Suggest: []CoTagGuide{
				{Key: "emergency", Value: "yes", Confidence: 0.8, Reason: "emergency department availability"},
				{Key: "phone", Confidence: 0.7, Reason: "contact number"},
				{Key: "wheelchair", Confidence: 0.65, Reason: "accessibility matters for public buildings"},
			}},
			{Key: "shop", Suggest: []CoTagGuide{
				{Key: "opening_hours", Confidence: 0.8, Reason: "operating hours are essential for shops"},
				{Key: "payment:credit_cards", Confidence: 0.55, Reason: "accepted payment methods"},
				{Key: "wheelchair", Confidence: 0.5, Reason: "accessibility information"},
			}},
			{Key: "tourism", Value: "hotel", Suggest: []CoTagGuide{
				{Key: "stars", Confidence: 0.75, Reason: "hotels often have a star rating"},
				{Key: "internet_access", Value: "wlan", Confidence: 0.7, Reason: "internet access is expected in hotels"},
				{Key: "phone", Confidence: 0.6, Reason: "contact number for bookings"},
				{Key: "website", Confidence: 0.55, Reason: "booking information"},
			}},
			{Key: "highway", Value: "residential", Suggest: []CoTagGuide{
				{Key: "maxspeed", Confidence: 0.75, Reason: "speed limits matter for routing"},
				{Key: "surface", Confidence: 0.6, Reason: "road surface information"},
			}},
			{Key: "*", Suggest: []CoTagGuide{
				{Key: "name", Confidence: 0.9, Reason: "most features benefit from a name"},
				{Key: "addr:street", Confidence: 0.5, Reason: "address helps locate the feature"},
				{Key: "addr:housenumber", Confidence: 0.45, Reason: "address helps locate the feature"},
			}},
		},
		Descriptions: []KeyDoc{
			{Key: "amenity", Description: "Facilities used by visitors and residents", Wiki: "https://wiki.openstreetmap.org/wiki/Key:amenity", Values: []ValueDoc{
				{Value: "restaurant", Description: "Place to eat"},
				{Value: "fast_food", Description: "Fast food outlet"},
				{Value: "cafe", Description: "Coffee shop"},
				{Value: "pub", Description: "Pub serving drinks and food"},
				{Value: "bar", Description: "Bar serving drinks"},
				{Value: "school", Description: "Educational institution"},
				{Value: "hospital", Description: "Medical facility"},
				{Value: "pharmacy", Description: "Pharmacy"},
				{Value: "bank", Description: "Bank"},
				{Value: "fuel", Description: "Fuel / gas station"},
				{Value: "charging_station", Description: "EV charging station"},
				{Value: "parking", Description: "Parking area"},
			}},
			{Key: "shop", Description: "Retail establishments", Wiki: "https://wiki.openstreetmap.org/wiki/Key:shop", Values: []ValueDoc{
				{Value: "supermarket", Description: "Large food store"},
				{Value: "convenience", Description: "Convenience store"},
				{Value: "bakery", Description: "Bakery"},
				{Value: "butcher", Description: "Butcher"},
				{Value: "seafood", Description: "Fish and seafood shop"},
				{Value: "clothes", Description: "Clothing store"},
				{Value: "electronics", Description: "Electronics store"},
			}},
			{Key: "tourism", Description: "Tourist facilities and accommodation", Wiki: "https://wiki.openstreetmap.org/wiki/Key:tourism", Values: []ValueDoc{
				{Value: "hotel", Description: "Hotel"},
				{Value: "hostel", Description: "Hostel"},
				{Value: "museum", Description: "Museum"},
				{Value: "attraction", Description: "Tourist attraction"},
				{Value: "information", Description: "Tourist information"},
			}},
			{Key: "highway", Description: "Roads, paths and transport infrastructure", Wiki: "https://wiki.openstreetmap.org/wiki/Key:highway", Values: []ValueDoc{
				{Value: "bus_stop", Description: "Bus stop"},
				{Value: "traffic_signals", Description: "Traffic lights"},
				{Value: "crossing", Description: "Pedestrian crossing"},
				{Value: "residential", Description: "Residential road"},
			}},
			{Key: "building", Description: "Structures and architecture", Wiki: "https://wiki.openstreetmap.org/wiki/Key:building", Values: []ValueDoc{
				{Value: "house", Description: "House"},
				{Value: "apartments", Description: "Apartment building"},
				{Value: "office", Description: "Office building"},
				{Value: "commercial", Description: "Commercial building"},
			}},
			{Key: "leisure", Description: "Leisure and recreation facilities", Wiki: "https://wiki.openstreetmap.org/wiki/Key:leisure", Values: []ValueDoc{
				{Value: "park", Description: "Public park"},
				{Value: "playground", Description: "Playground"},
			}},
			{Key: "landuse", Description: "Primary use of an area of land", Wiki: "https://wiki.openstreetmap.org/wiki/Key:landuse"},
			{Key: "cuisine", Description: "Type of food served", Wiki: "https://wiki.openstreetmap.org/wiki/Key:cuisine"},
			{Key: "opening_hours", Description: "When the feature is open", Wiki: "https://wiki.openstreetmap.org/wiki/Key:opening_hours"},
			{Key: "internet_access", Description: "Public internet availability", Wiki: "https://wiki.openstreetmap.org/wiki/Key:internet_access"},
			{Key: "wheelchair", Description: "Wheelchair accessibility", Wiki: "https://wiki.openstreetmap.org/wiki/Key:wheelchair"},
			{Key: "name", Description: "Common name of the feature", Wiki: "https://wiki.openstreetmap.org/wiki/Key:name"},
		},
	}
}
