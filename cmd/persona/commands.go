package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sunlit/persona/internal/archive"
	"github.com/sunlit/persona/internal/compiler"
	"github.com/sunlit/persona/internal/config"
	"github.com/sunlit/persona/internal/persona"
	"github.com/sunlit/persona/internal/share"
)

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		data, err := archive.Export(s.manager.Snapshot())
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- set ---

var setCmd = &cobra.Command{
	Use:   "set <section.field> <value>",
	Short: "Set a document field",
	Long: `Set a document field.

Examples:
  persona set owner_basic.name 张伟
  persona set owner_basic.working_languages "中文, English"
  persona set professional_profile.core_skills "数据分析, 团队管理"
  persona set goals.short_term_goals "拿下两个大客户"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var applyErr error
		s.manager.Apply(func(d persona.Document) persona.Document {
			next, err := applySet(d, key, value)
			if err != nil {
				applyErr = err
				return d
			}
			return next
		})
		if applyErr != nil {
			return applyErr
		}

		printSuccess("Set %s", key)
		return nil
	},
}

// applySet maps a dotted field key onto the typed section setters. String
// list fields accept delimited input here; the document itself only ever
// holds real lists.
func applySet(d persona.Document, key, value string) (persona.Document, error) {
	switch key {
	case "owner_basic.name", "owner_basic.preferred_name", "owner_basic.city",
		"owner_basic.timezone", "owner_basic.role", "owner_basic.industry",
		"owner_basic.years_of_experience", "owner_basic.working_languages":
		ob := d.OwnerBasic
		switch key {
		case "owner_basic.name":
			ob.Name = value
		case "owner_basic.preferred_name":
			ob.PreferredName = value
		case "owner_basic.city":
			ob.City = value
		case "owner_basic.timezone":
			ob.Timezone = value
		case "owner_basic.role":
			ob.Role = value
		case "owner_basic.industry":
			ob.Industry = value
		case "owner_basic.years_of_experience":
			ob.YearsOfExperience = value
		case "owner_basic.working_languages":
			ob.WorkingLanguages = splitComma(value)
		}
		return d.WithOwnerBasic(ob), nil

	case "professional_profile.one_sentence_bio", "professional_profile.core_skills",
		"professional_profile.typical_scenarios":
		pp := d.ProfessionalProfile
		switch key {
		case "professional_profile.one_sentence_bio":
			pp.OneSentenceBio = value
		case "professional_profile.core_skills":
			pp.CoreSkills = splitComma(value)
		case "professional_profile.typical_scenarios":
			pp.TypicalScenarios = splitLines(value)
		}
		return d.WithProfessionalProfile(pp), nil

	case "organization.org_name", "organization.industry", "organization.stage",
		"organization.products_services", "organization.target_customers",
		"organization.business_model":
		org := d.Organization
		switch key {
		case "organization.org_name":
			org.OrgName = value
		case "organization.industry":
			org.Industry = value
		case "organization.stage":
			org.Stage = value
		case "organization.products_services":
			org.ProductsServices = value
		case "organization.target_customers":
			org.TargetCustomers = value
		case "organization.business_model":
			org.BusinessModel = value
		}
		return d.WithOrganization(org), nil

	case "communication_preferences.default_tone", "communication_preferences.length_preference",
		"communication_preferences.avoid_phrases", "communication_preferences.avoid_behaviors":
		cp := d.CommunicationPreferences
		switch key {
		case "communication_preferences.default_tone":
			cp.DefaultTone = value
		case "communication_preferences.length_preference":
			cp.LengthPreference = value
		case "communication_preferences.avoid_phrases":
			cp.AvoidPhrases = value
		case "communication_preferences.avoid_behaviors":
			cp.AvoidBehaviors = value
		}
		return d.WithCommunicationPreferences(cp), nil

	case "constraints.forbidden_topics", "constraints.confidentiality_rules",
		"constraints.do_not_do_list":
		c := d.Constraints
		switch key {
		case "constraints.forbidden_topics":
			c.ForbiddenTopics = value
		case "constraints.confidentiality_rules":
			c.ConfidentialityRules = value
		case "constraints.do_not_do_list":
			c.DoNotDoList = value
		}
		return d.WithConstraints(c), nil

	case "goals.short_term_goals":
		return d.WithGoals(value, d.GoalsAndUseCases.LongTermGoals), nil
	case "goals.long_term_goals":
		return d.WithGoals(d.GoalsAndUseCases.ShortTermGoals, value), nil
	}

	return d, fmt.Errorf("unknown field: %q", key)
}

func splitComma(value string) []string {
	return splitOn(value, ",", "，")
}

func splitLines(value string) []string {
	return splitOn(value, "\n", ";", "；")
}

func splitOn(value string, seps ...string) []string {
	parts := []string{value}
	for _, sep := range seps {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- trait ---

var traitCmd = &cobra.Command{
	Use:   "trait [trait]",
	Short: "Toggle a communication style trait, or list the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 0 {
			selected := s.manager.Snapshot().CommunicationPreferences.StyleTraits
			for _, trait := range persona.StyleTraitCatalog {
				mark := " "
				if slices.Contains(selected, trait) {
					mark = "✓"
				}
				fmt.Printf("[%s] %s\n", mark, trait)
			}
			return nil
		}

		trait := args[0]
		next := s.manager.Apply(func(d persona.Document) persona.Document {
			return d.ToggleStyleTrait(trait)
		})
		if slices.Contains(next.CommunicationPreferences.StyleTraits, trait) {
			printSuccess("Added trait %s", trait)
		} else {
			printSuccess("Removed trait %s", trait)
		}
		return nil
	},
}

// --- person ---

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Manage relationship contacts",
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List relationship categories and their people",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, cat := range s.manager.Snapshot().Relationships {
			fmt.Printf("%s  %s\n", colorize(colorBold, cat.ID), cat.Label)
			for _, p := range cat.People {
				fmt.Printf("  %s  %s（%s）\n", colorize(colorCyan, p.ID), p.Alias, p.RoleToMe)
			}
		}
		return nil
	},
}

var personAddCmd = &cobra.Command{
	Use:   "add <category-id>",
	Short: "Add an empty person to a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var newID string
		s.manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddPerson(args[0])
			newID = id
			return next
		})
		if newID == "" {
			return fmt.Errorf("unknown category %q (use rel-1 through rel-8)", args[0])
		}

		printSuccess("Added person %s to %s", newID, args[0])
		return nil
	},
}

var personSetCmd = &cobra.Command{
	Use:   "set <category-id> <person-id> <field> <value>",
	Short: "Set a person field (alias, role_to_me, closeness, preferred_tone, focus_points, my_goal_with_this_role)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, personID, field, value := args[0], args[1], args[2], args[3]

		update, err := personFieldSetter(field, value)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Apply(func(d persona.Document) persona.Document {
			return d.UpdatePerson(categoryID, personID, update)
		})

		printSuccess("Set %s on person %s", field, personID)
		return nil
	},
}

var personRemoveCmd = &cobra.Command{
	Use:   "remove <category-id> <person-id>",
	Short: "Remove a person from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Apply(func(d persona.Document) persona.Document {
			return d.RemovePerson(args[0], args[1])
		})

		printSuccess("Removed person %s", args[1])
		return nil
	},
}

func personFieldSetter(field, value string) (func(persona.Person) persona.Person, error) {
	switch field {
	case "alias":
		return func(p persona.Person) persona.Person { p.Alias = value; return p }, nil
	case "role_to_me":
		return func(p persona.Person) persona.Person { p.RoleToMe = value; return p }, nil
	case "closeness":
		return func(p persona.Person) persona.Person { p.Closeness = value; return p }, nil
	case "preferred_tone":
		return func(p persona.Person) persona.Person { p.PreferredTone = value; return p }, nil
	case "focus_points":
		return func(p persona.Person) persona.Person { p.FocusPoints = value; return p }, nil
	case "my_goal_with_this_role":
		return func(p persona.Person) persona.Person { p.MyGoalWithThisRole = value; return p }, nil
	}
	return nil, fmt.Errorf("unknown person field: %q", field)
}

func init() {
	personCmd.AddCommand(personListCmd)
	personCmd.AddCommand(personAddCmd)
	personCmd.AddCommand(personSetCmd)
	personCmd.AddCommand(personRemoveCmd)
}

// --- usecase ---

var usecaseCmd = &cobra.Command{
	Use:   "usecase",
	Short: "Manage typical AI use cases",
}

var usecaseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty use case",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var newID string
		s.manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddUseCase()
			newID = id
			return next
		})

		printSuccess("Added use case %s", newID)
		return nil
	},
}

var usecaseSetCmd = &cobra.Command{
	Use:   "set <id> <field> <value>",
	Short: "Set a use case field (name, expected_outcome, special_requirements)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, field, value := args[0], args[1], args[2]

		var update func(persona.UseCase) persona.UseCase
		switch field {
		case "name":
			update = func(u persona.UseCase) persona.UseCase { u.Name = value; return u }
		case "expected_outcome":
			update = func(u persona.UseCase) persona.UseCase { u.ExpectedOutcome = value; return u }
		case "special_requirements":
			update = func(u persona.UseCase) persona.UseCase { u.SpecialRequirements = value; return u }
		default:
			return fmt.Errorf("unknown use case field: %q", field)
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Apply(func(d persona.Document) persona.Document {
			return d.UpdateUseCase(id, update)
		})

		printSuccess("Set %s on use case %s", field, id)
		return nil
	},
}

var usecaseRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a use case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Apply(func(d persona.Document) persona.Document {
			return d.RemoveUseCase(args[0])
		})

		printSuccess("Removed use case %s", args[0])
		return nil
	},
}

func init() {
	usecaseCmd.AddCommand(usecaseAddCmd)
	usecaseCmd.AddCommand(usecaseSetCmd)
	usecaseCmd.AddCommand(usecaseRemoveCmd)
}

// --- example ---

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Manage example dialogues",
}

var exampleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty example dialogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var newID string
		s.manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddExample()
			newID = id
			return next
		})

		printSuccess("Added example %s", newID)
		return nil
	},
}

var exampleSetCmd = &cobra.Command{
	Use:   "set <id> <field> <value>",
	Short: "Set an example field (user_question, what_went_wrong_before, ideal_answer_description)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, field, value := args[0], args[1], args[2]

		var update func(persona.ExampleDialogue) persona.ExampleDialogue
		switch field {
		case "user_question":
			update = func(e persona.ExampleDialogue) persona.ExampleDialogue { e.UserQuestion = value; return e }
		case "what_went_wrong_before":
			update = func(e persona.ExampleDialogue) persona.ExampleDialogue { e.WhatWentWrongBefore = value; return e }
		case "ideal_answer_description":
			update = func(e persona.ExampleDialogue) persona.ExampleDialogue { e.IdealAnswerDescription = value; return e }
		default:
			return fmt.Errorf("unknown example field: %q", field)
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Apply(func(d persona.Document) persona.Document {
			return d.UpdateExample(id, update)
		})

		printSuccess("Set %s on example %s", field, id)
		return nil
	},
}

var exampleRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an example dialogue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Apply(func(d persona.Document) persona.Document {
			return d.RemoveExample(args[0])
		})

		printSuccess("Removed example %s", args[0])
		return nil
	},
}

func init() {
	exampleCmd.AddCommand(exampleAddCmd)
	exampleCmd.AddCommand(exampleSetCmd)
	exampleCmd.AddCommand(exampleRemoveCmd)
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile the document into its system prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.gate.Require(); err != nil {
			printWarning("Activation required. Run: persona activate <code>")
			return err
		}

		next := s.manager.Apply(func(d persona.Document) persona.Document {
			return compiler.Generate(d, s.manager.Now())
		})

		fmt.Println(next.SystemPromptSummaryZH)
		return nil
	},
}

// --- export / import ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the document to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		doc := s.manager.Snapshot()
		data, err := archive.Export(doc)
		if err != nil {
			return err
		}

		if output == "" {
			output = archive.Filename(doc)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}

		printSuccess("Exported to %s", output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the document with one from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		doc, err := archive.Import(data)
		if err != nil {
			// Distinct messages for "not JSON" vs "not our shape"; the
			// current document stays untouched either way.
			printError("%v", err)
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Replace(doc)
		printSuccess("Document imported")
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "", "output file path (default: ai_persona_<name>.json)")
}

// --- share ---

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a mailto link for sharing the generated prompt with the author",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		doc := s.manager.Snapshot()
		if doc.SystemPromptSummaryZH == "" {
			printWarning("No generated prompt yet. Run: persona generate")
		}
		fmt.Println(share.Mailto(doc, s.cfg.Share.AuthorEmail))
		return nil
	},
}

// --- activate ---

var activateCmd = &cobra.Command{
	Use:   "activate <code>",
	Short: "Unlock prompt generation with an activation code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if s.gate.Activated() {
			printSuccess("Already activated")
			return nil
		}
		if err := s.gate.Activate(args[0]); err != nil {
			printError("激活码无效或已过期。如已付款，请联系作者重新获取。")
			return err
		}

		printSuccess("Activated")
		return nil
	},
}

// --- reset ---

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the document with a fresh default one",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will discard the current document. Use --confirm to proceed.")
			return nil
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		s.manager.Reset()
		printSuccess("Document reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("confirm", false, "confirm the reset")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
