package summarize

import "fmt"

const systemPrompt = "Resume en prosa clara, directa y fiel. SIN listas ni viñetas.\n" +
	"No incluyas etiquetas <think>, ni markdown extra."

func chunkPrompt(title, chunk string, i, n int) string {
	return fmt.Sprintf(
		"Resume en español el siguiente contenido del capítulo «%s». "+
			"Evita fórmulas tipo «El autor dice…». Sin listas.\n\n"+
			"--- CONTENIDO (%d/%d) ---\n%s\n",
		title, i, n, chunk)
}

func fusionPrompt(partials []string) string {
	p := "Fusiona en un único resumen coherente los siguientes sub-resúmenes. " +
		"2-6 párrafos como máximo.\n\n"
	for i, s := range partials {
		if i > 0 {
			p += "\n\n---\n"
		}
		p += s
	}
	return p
}

func generalPrompt(chapterSection string) string {
	return "A partir de los resúmenes por capítulo siguientes, escribe un " +
		"Resumen general del libro en 1-3 párrafos.\n\n" + chapterSection
}

func fixTitlePrompt(badTitle string) string {
	return "Corrige el espaciado y las mayúsculas de esta frase para que quede " +
		"como un título normal en español. Devuelve SOLO el título corregido:\n\n" +
		badTitle
}
