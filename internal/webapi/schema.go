package webapi

// Schema names the tables and columns that hold tags, translations and
// languages. Entity names are logical names; Set names are the Web API
// collection names.
type Schema struct {
	TagEntity   string `yaml:"tag_entity"`
	TagSet      string `yaml:"tag_set"`
	TagID       string `yaml:"tag_id"`
	TagName     string `yaml:"tag_name"`
	TagScope    string `yaml:"tag_scope"`
	TagLanguage string `yaml:"tag_language"`

	TranslationEntity string `yaml:"translation_entity"`
	TranslationSet    string `yaml:"translation_set"`
	TranslationID     string `yaml:"translation_id"`
	TranslationTag    string `yaml:"translation_tag"`
	TranslationName   string `yaml:"translation_name"`
	TranslationLCID   string `yaml:"translation_lcid"`

	LanguageEntity string `yaml:"language_entity"`
	LanguageSet    string `yaml:"language_set"`
	LanguageID     string `yaml:"language_id"`
	LanguageLCID   string `yaml:"language_lcid"`
	LanguageCode   string `yaml:"language_code"`
	LanguageName   string `yaml:"language_name"`
}

// DefaultSchema returns the schema shipped with the tagging solution.
func DefaultSchema() Schema {
	return Schema{
		TagEntity:   "pt_tag",
		TagSet:      "pt_tags",
		TagID:       "pt_tagid",
		TagName:     "pt_name",
		TagScope:    "pt_scope",
		TagLanguage: "pt_languageid",

		TranslationEntity: "pt_tagtranslation",
		TranslationSet:    "pt_tagtranslations",
		TranslationID:     "pt_tagtranslationid",
		TranslationTag:    "pt_tagid",
		TranslationName:   "pt_name",
		TranslationLCID:   "pt_lcid",

		LanguageEntity: "pt_language",
		LanguageSet:    "pt_languages",
		LanguageID:     "pt_languageid",
		LanguageLCID:   "pt_lcid",
		LanguageCode:   "pt_code",
		LanguageName:   "pt_name",
	}
}

// WithDefaults fills empty fields from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.TagEntity, d.TagEntity)
	fill(&s.TagSet, d.TagSet)
	fill(&s.TagID, d.TagID)
	fill(&s.TagName, d.TagName)
	fill(&s.TagScope, d.TagScope)
	fill(&s.TagLanguage, d.TagLanguage)
	fill(&s.TranslationEntity, d.TranslationEntity)
	fill(&s.TranslationSet, d.TranslationSet)
	fill(&s.TranslationID, d.TranslationID)
	fill(&s.TranslationTag, d.TranslationTag)
	fill(&s.TranslationName, d.TranslationName)
	fill(&s.TranslationLCID, d.TranslationLCID)
	fill(&s.LanguageEntity, d.LanguageEntity)
	fill(&s.LanguageSet, d.LanguageSet)
	fill(&s.LanguageID, d.LanguageID)
	fill(&s.LanguageLCID, d.LanguageLCID)
	fill(&s.LanguageCode, d.LanguageCode)
	fill(&s.LanguageName, d.LanguageName)
	return s
}

// lookupKey is the property name the Web API uses for a lookup column value.
func lookupKey(attr string) string {
	return "_" + attr + "_value"
}
