// Package panchang computes approximate Hindu calendar attributes (tithi,
// nakshatra, yoga, karana, vara, lunar month) and the auspicious and
// inauspicious time windows of a day for a given date and location.
//
// The calculations are closed-form approximations over static tables. They
// are not ephemeris based and should not be used where astronomical accuracy
// matters.
package panchang

// Sizes of the name cycles.
const (
	TithiCount     = 30
	NakshatraCount = 27
	YogaCount      = 27
	KaranaCount    = 11
)

// tithiNames lists the lunar days: 15 of the bright half followed by 15 of
// the dark half.
var tithiNames = [TithiCount]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Amavasya",
}

// nakshatraNames lists the lunar mansions starting at Ashwini.
var nakshatraNames = [NakshatraCount]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira",
	"Ardra", "Punarvasu", "Pushya", "Ashlesha", "Magha",
	"Purva Phalguni", "Uttara Phalguni", "Hasta", "Chitra", "Swati",
	"Vishakha", "Anuradha", "Jyeshtha", "Mula", "Purva Ashadha",
	"Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha", "Purva Bhadrapada",
	"Uttara Bhadrapada", "Revati",
}

var yogaNames = [YogaCount]string{
	"Vishkumbha", "Priti", "Ayushman", "Saubhagya", "Shobhana",
	"Atiganda", "Sukarma", "Dhriti", "Shula", "Ganda",
	"Vriddhi", "Dhruva", "Vyaghata", "Harshana", "Vajra",
	"Siddhi", "Vyatipata", "Variyana", "Parigha", "Shiva",
	"Siddha", "Sadhya", "Shubha", "Shukla", "Brahma",
	"Indra", "Vaidhriti",
}

// karanaNames: the first 7 repeat through the month, the last 4 occur once
// each at the end of the dark half.
var karanaNames = [KaranaCount]string{
	"Bava", "Balava", "Kaulava", "Taitila", "Garija",
	"Vanija", "Vishti", "Shakuni", "Chatushpada", "Naga",
	"Kimstughna",
}

// varaNames are the weekday names, Sunday first.
var varaNames = [7]string{
	"Ravivara", "Somavara", "Mangalavara", "Budhavara",
	"Guruvara", "Shukravara", "Shanivara",
}

// amantaMonths names the lunar months when the month ends on the new moon.
var amantaMonths = [12]string{
	"Chaitra", "Vaishakha", "Jyeshtha", "Ashadha", "Shravana",
	"Bhadrapada", "Ashvina", "Kartika", "Margashirsha", "Pausha",
	"Magha", "Phalguna",
}

// purnimantaMonths names the lunar months when the month ends on the full moon.
var purnimantaMonths = [12]string{
	"Vaishakha", "Jyeshtha", "Ashadha", "Shravana", "Bhadrapada",
	"Ashvina", "Kartika", "Margashirsha", "Pausha", "Magha",
	"Phalguna", "Chaitra",
}

// Per-weekday segment numbers (1-8) of the day for the three segment
// periods, Sunday first.
var (
	rahuSegments   = [7]int{7, 1, 6, 4, 5, 3, 2}
	yamaSegments   = [7]int{5, 4, 3, 2, 1, 7, 6}
	gulikaSegments = [7]int{6, 7, 5, 3, 4, 2, 1}
)

// durMuhuratRule holds the start (hours after sunrise) and length (minutes)
// of Dur Muhurat for one weekday.
type durMuhuratRule struct {
	startHours int
	minutes    int
}

var durMuhuratRules = [7]durMuhuratRule{
	{startHours: 4, minutes: 90}, // Sunday
	{startHours: 3, minutes: 60},
	{startHours: 5, minutes: 80},
	{startHours: 2, minutes: 90},
	{startHours: 1, minutes: 60},
	{startHours: 6, minutes: 80},
	{startHours: 5, minutes: 90}, // Saturday
}
