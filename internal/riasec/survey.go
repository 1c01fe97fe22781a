package riasec

import "school-advisor/internal/domain"

// itemsPerCategory define el bloque de ids de cada categoria: R=1..7, I=8..14, etc.
const itemsPerCategory = 7

var prompts = map[domain.TraitCategory][itemsPerCategory]string{
	domain.TraitRealistic: {
		"I like to work on cars or small engines.",
		"I like to build things with my hands.",
		"I like to take care of animals.",
		"I like putting things together or assembling things.",
		"I like to cook.",
		"I am a practical person.",
		"I like working outdoors.",
	},
	domain.TraitInvestigative: {
		"I like to do puzzles.",
		"I like to do experiments.",
		"I enjoy science.",
		"I enjoy trying to figure out how things work.",
		"I like to analyze things like problems or situations.",
		"I like working with numbers or charts.",
		"I am good at math.",
	},
	domain.TraitArtistic: {
		"I am good at working independently.",
		"I like to read about art and music.",
		"I enjoy creative writing.",
		"I am a creative person.",
		"I like to play instruments or sing.",
		"I like acting in plays.",
		"I like to draw.",
	},
	domain.TraitSocial: {
		"I like to work in teams.",
		"I like to teach or train people.",
		"I like trying to help people solve their problems.",
		"I am interested in healing people.",
		"I enjoy learning about other cultures.",
		"I like to get into discussions about issues around me.",
		"I like helping people.",
	},
	domain.TraitEnterprising: {
		"I am an ambitious person who sets goals for myself.",
		"I like to try to influence or persuade people.",
		"I like selling things.",
		"I am quick to take on new responsibilities.",
		"I would like to start my own business.",
		"I like to lead.",
		"I like to give speeches.",
	},
	domain.TraitConventional: {
		"I like to organize things like files, offices, or activities.",
		"I like to have clear instructions to follow.",
		"I wouldn't mind working 8 hours a day in an office.",
		"I pay attention to details.",
		"I like to do filing or typing.",
		"I am good at keeping records of my work.",
		"I would like to work in an office.",
	},
}

var items = buildItems()

func buildItems() []domain.SurveyItem {
	out := make([]domain.SurveyItem, 0, len(domain.TraitCategories)*itemsPerCategory)
	id := 1
	for _, category := range domain.TraitCategories {
		for _, prompt := range prompts[category] {
			out = append(out, domain.SurveyItem{ID: id, Prompt: prompt, Category: category})
			id++
		}
	}
	return out
}

// Items devuelve el cuestionario completo en orden estable. La slice es una
// copia: el llamador puede modificarla sin afectar al resto del proceso.
func Items() []domain.SurveyItem {
	out := make([]domain.SurveyItem, len(items))
	copy(out, items)
	return out
}

// ItemByID busca una pregunta por id.
func ItemByID(id int) (domain.SurveyItem, bool) {
	if id < 1 || id > len(items) {
		return domain.SurveyItem{}, false
	}
	return items[id-1], true
}
