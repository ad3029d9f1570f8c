package normalize

// defaultFirstNames keeps the splitter functional when the bundled
// dictionary cannot be used. Common European and North African first
// names.
var defaultFirstNames = []string{
	// French
	"jean", "pierre", "michel", "andré", "philippe", "alain", "jacques", "bernard", "claude", "françois",
	"marie", "nathalie", "isabelle", "sylvie", "catherine", "françoise", "monique", "nicole", "christine", "martine",
	// Dutch / Flemish
	"jan", "peter", "johan", "luc", "marc", "paul", "dirk", "eric", "kris", "tom",
	"katrien", "ann", "els", "sophie", "sarah", "eva", "laura", "julie", "mieke", "inge",
	// English
	"john", "james", "robert", "michael", "william", "david", "richard", "joseph", "thomas", "charles",
	"mary", "patricia", "jennifer", "linda", "barbara", "elizabeth", "susan", "jessica", "karen",
	// German
	"hans", "karl", "heinz", "werner", "günter", "klaus", "dieter", "jürgen", "wolfgang", "horst",
	"ursula", "monika", "petra", "angelika", "sabine", "renate", "karin", "ingrid", "helga", "gisela",
	// Spanish
	"josé", "antonio", "manuel", "francisco", "juan", "pedro", "jesús", "carlos", "miguel", "fernando",
	"maría", "carmen", "ana", "isabel", "dolores", "pilar", "teresa", "rosa", "francisca", "antonia",
	// Italian
	"giuseppe", "giovanni", "mario", "luigi", "francesco", "angelo", "vincenzo", "pietro", "salvatore",
	"anna", "giuseppina", "angela", "giovanna", "lucia", "carmela", "caterina",
	// Arabic / North African
	"mohamed", "mohammed", "muhammad", "ahmed", "ali", "omar", "khalid", "youssef", "hassan", "ibrahim",
	"fatima", "aisha", "khadija", "zainab", "maryam", "amina", "salma", "nour", "yasmin", "laila",
	"mehdi", "karim", "said", "rachid", "hamza", "amine", "bilal", "zakaria", "adam", "ayoub",
	"samira", "sofia", "amira", "ines", "sara", "nadia", "leila", "malika", "houda", "sabrina",
	"mahmoud", "mustafa", "abdullah", "ismail", "younes", "adil", "fouad", "tarik", "reda",
	// Compound first names
	"marie-christine", "marie-france", "jean-pierre", "jean-paul", "jean-claude", "jean-luc",
	"anne-marie", "marie-claire", "marie-thérèse", "jean-françois", "pierre-yves", "marc-antoine",
	// Common in Belgium
	"laurent", "olivier", "christophe", "stéphane", "cédric", "sébastien", "nicolas", "benoît", "vincent", "matthieu",
	"valérie", "sandrine", "véronique", "florence", "delphine", "céline", "aurélie", "émilie", "charlotte", "camille",
}
